package browser

import (
	"fmt"

	"github.com/go-rod/rod"
)

// inlineIframesJS replaces every accessible iframe with a
// <div data-captured-iframe> holding the frame's styles and body, nested
// frames first. Inaccessible frames become an error marker div. Returns the
// number of frames replaced.
const inlineIframesJS = `() => {
	let count = 0;
	function inline(root) {
		root.querySelectorAll('iframe').forEach((iframe) => {
			const box = root.createElement('div');
			box.setAttribute('data-captured-iframe', 'true');
			box.setAttribute('data-iframe-src', iframe.src || '');
			box.setAttribute('data-iframe-id', iframe.id || '');
			try {
				const doc = iframe.contentDocument || iframe.contentWindow.document;
				if (!doc || !doc.body) return;
				inline(doc);
				let content = '';
				if (doc.head) {
					doc.head.querySelectorAll('style').forEach((s) => {
						content += '<style data-from-iframe="true">' + s.textContent + '<\/style>';
					});
				}
				box.innerHTML = content + doc.body.innerHTML;
				count++;
			} catch (e) {
				box.setAttribute('data-iframe-error', e.message);
			}
			iframe.parentNode.replaceChild(box, iframe);
		});
	}
	inline(document);
	return count;
}`

// CaptureHTML returns the page HTML with iframe documents inlined, so a
// survey rendered inside frames can be saved as one parseable fixture.
//
// The live DOM is modified; navigate away (or reload) before interacting
// with the page again. Falls back to the plain outer HTML when inlining
// fails.
func CaptureHTML(page *rod.Page) (html string, iframeCount int, err error) {
	iframes, err := page.Elements("iframe")
	if err != nil {
		return "", 0, fmt.Errorf("browser: list iframes: %w", err)
	}

	if len(iframes) > 0 {
		if res, evalErr := page.Eval(inlineIframesJS); evalErr == nil {
			iframeCount = res.Value.Int()
		}
	}

	html, err = page.HTML()
	if err != nil {
		return "", 0, fmt.Errorf("browser: page html: %w", err)
	}
	return html, iframeCount, nil
}
