package browser

import (
	"encoding/json"
	"fmt"
)

// Attribute used to find a control again after FindExpandControl.
const expandTokenAttr = "data-vocabharvest-expand"

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// findExpandScript tags the first matching control and returns its token and label.
func findExpandScript(tag, marker string) string {
	return fmt.Sprintf(`(() => {
	const marker = %s;
	const el = Array.from(document.querySelectorAll(%s))
		.find(b => b.textContent.trim().includes(marker));
	if (!el) return {found: false, token: "", label: ""};
	window.__vocabharvestSeq = (window.__vocabharvestSeq || 0) + 1;
	const token = String(window.__vocabharvestSeq);
	el.setAttribute(%s, token);
	return {found: true, token: token, label: el.textContent.trim()};
})()`, jsString(marker), jsString(tag), jsString(expandTokenAttr))
}

// activateScript clicks the tagged control, returning false if it is gone.
func activateScript(token string) string {
	selector := fmt.Sprintf(`[%s=%s]`, expandTokenAttr, jsString(token))
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.click();
	return true;
})()`, jsString(selector))
}

// cardsScript returns the trimmed innerText of every text element, per card.
func cardsScript(card, text string) string {
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s))
	.map(c => Array.from(c.querySelectorAll(%s)).map(p => p.innerText.trim()))`,
		jsString(card), jsString(text))
}

// mountScript injects the panel markup and wires its buttons to the binding.
func mountScript(markup, binding, copyID, closeID string) string {
	return fmt.Sprintf(`(() => {
	if (window.__vocabharvestOverlay) window.__vocabharvestOverlay.remove();
	const container = document.createElement('div');
	container.innerHTML = %s;
	document.body.appendChild(container);
	window.__vocabharvestOverlay = container;
	const send = (action) => { if (typeof window[%s] === 'function') window[%s](action); };
	container.querySelector('#' + %s).addEventListener('click', () => send('copy'));
	container.querySelector('#' + %s).addEventListener('click', () => send('close'));
	return true;
})()`, jsString(markup), jsString(binding), jsString(binding), jsString(copyID), jsString(closeID))
}

// setTextScript replaces the text of the element with the given id.
func setTextScript(id, text string) string {
	return fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (!el) return false;
	el.textContent = %s;
	return true;
})()`, jsString(id), jsString(text))
}

// selectScript focuses and selects the whole textarea.
func selectScript(id string) string {
	return fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (!el) return false;
	el.focus();
	el.select();
	return true;
})()`, jsString(id))
}

const unmountScript = `(() => {
	const el = window.__vocabharvestOverlay;
	if (!el) return false;
	el.remove();
	window.__vocabharvestOverlay = undefined;
	return true;
})()`

// clipboardScript resolves once navigator.clipboard accepted the text.
func clipboardScript(text string) string {
	return fmt.Sprintf(`(async () => {
	if (!navigator.clipboard || !navigator.clipboard.writeText) {
		throw new Error('clipboard API unavailable');
	}
	await navigator.clipboard.writeText(%s);
	return true;
})()`, jsString(text))
}
