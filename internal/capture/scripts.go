package capture

// CloneRootID is the id of the off-screen container holding the clone.
const CloneRootID = "proofa-capture-root"

// All scripts return JSON.stringify output so results decode into Go structs.

const scrollTopScript = `() => {
	window.scrollTo(0, 0);
	return JSON.stringify({y: window.scrollY});
}`

const probeScript = `(id) => {
	const nodes = document.querySelectorAll('[id="' + CSS.escape(id) + '"]');
	if (nodes.length !== 1) {
		return JSON.stringify({count: nodes.length, width: 0, height: 0});
	}
	const el = nodes[0];
	const hidden = getComputedStyle(el).display === 'none';
	return JSON.stringify({
		count: 1,
		width: hidden ? 0 : el.offsetWidth,
		height: hidden ? 0 : el.offsetHeight,
	});
}`

const waitImagesScript = `async (id) => {
	const el = document.getElementById(id);
	const imgs = el ? Array.from(el.querySelectorAll('img')) : [];
	const results = await Promise.all(imgs.map((img) => {
		if (img.complete) {
			return Promise.resolve(img.naturalWidth > 0);
		}
		return new Promise((resolve) => {
			img.addEventListener('load', () => resolve(true), {once: true});
			img.addEventListener('error', () => resolve(false), {once: true});
		});
	}));
	return JSON.stringify({total: imgs.length, failed: results.filter((ok) => !ok).length});
}`

// neutralizeStyle applies to everything inside the clone container. The clone
// root additionally loses its own transforms; rotated descendants such as the
// watermark keep theirs.
const neutralizeStyle = `
#proofa-capture-root, #proofa-capture-root * {
	box-shadow: none !important;
	text-shadow: none !important;
	animation: none !important;
	transition: none !important;
}
#proofa-capture-root > [data-proofa-clone] {
	transform: none !important;
	scale: none !important;
	rotate: none !important;
	translate: none !important;
	margin: 0 !important;
}`

const acquireCloneScript = `(id, rootID, style) => {
	const stale = document.getElementById(rootID);
	if (stale) {
		stale.remove();
	}
	const target = document.getElementById(id);
	if (!target) {
		return JSON.stringify({found: false});
	}
	const doc = document.documentElement;
	const bottom = Math.max(doc.scrollHeight, document.body ? document.body.scrollHeight : 0);

	const root = document.createElement('div');
	root.id = rootID;
	root.setAttribute('aria-hidden', 'true');
	root.style.cssText = 'position:absolute;left:0;top:' + (bottom + 64) + 'px;' +
		'width:' + target.offsetWidth + 'px;margin:0;padding:0;border:0;' +
		'pointer-events:none;transform:none;';

	const css = document.createElement('style');
	css.textContent = style;
	root.appendChild(css);

	const clone = target.cloneNode(true);
	clone.removeAttribute('id');
	clone.setAttribute('data-proofa-clone', '');
	root.appendChild(clone);
	document.body.appendChild(root);

	const r = clone.getBoundingClientRect();
	return JSON.stringify({
		found: true,
		x: r.left + window.scrollX,
		y: r.top + window.scrollY,
		width: r.width,
		height: r.height,
	});
}`

const releaseCloneScript = `(rootID) => {
	const root = document.getElementById(rootID);
	if (root) {
		root.remove();
	}
	return JSON.stringify({removed: !!root});
}`

const countClonesScript = `(rootID) => {
	return JSON.stringify({count: document.querySelectorAll('[id="' + CSS.escape(rootID) + '"]').length});
}`
