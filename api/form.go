package api

import (
	"net/http"
)

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(formPageHTML))
}

const formPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR Studio</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    min-height: 100vh;
    padding: 32px 16px;
  }
  h1 { font-size: 28px; font-weight: 700; text-align: center; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; text-align: center; margin-bottom: 32px; }
  .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 32px; max-width: 1100px; margin: 0 auto; align-items: start; }
  @media (max-width: 900px) { .grid { grid-template-columns: 1fr; } }
  .card { background: #1a1a1a; border: 1px solid #333; border-radius: 16px; padding: 32px; }
  .section { margin-top: 24px; }
  .section:first-child { margin-top: 0; }
  .heading { font-size: 12px; font-weight: 600; text-transform: uppercase; letter-spacing: .08em; color: #888; margin-bottom: 12px; display: block; }
  label { font-size: 13px; display: block; margin-bottom: 6px; }
  .muted { color: #888; font-size: 12px; }
  input[type=text], select {
    width: 100%; background: #0a0a0a; color: #e0e0e0; border: 1px solid #333;
    border-radius: 8px; padding: 10px 12px; font-size: 14px;
  }
  input[type=color] { width: 48px; height: 40px; border: 1px solid #333; border-radius: 8px; background: none; padding: 2px; cursor: pointer; }
  input[type=range] { width: 100%; }
  .row { display: flex; gap: 8px; }
  .cols { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; }
  button {
    background: #0a0a0a; color: #e0e0e0; border: 1px solid #333; border-radius: 8px;
    padding: 10px 12px; font-size: 14px; cursor: pointer; width: 100%;
  }
  button.active, button.primary { background: #4ade80; color: #0a0a0a; border-color: #4ade80; font-weight: 600; }
  button:disabled { opacity: .4; cursor: not-allowed; }
  .size-label { display: flex; justify-content: space-between; }
  #preview-box { background: #fff; border-radius: 16px; padding: 24px; display: flex; align-items: center; justify-content: center; min-height: 280px; }
  #preview { max-width: 100%; display: none; }
  #placeholder { color: #888; font-size: 13px; }
  .warn { color: #fbbf24; font-size: 12px; margin-top: 8px; min-height: 14px; }
  .hint { color: #888; font-size: 13px; text-align: center; margin-top: 16px; }
  #toasts { position: fixed; right: 16px; bottom: 16px; display: flex; flex-direction: column; gap: 8px; }
  .toast { padding: 12px 16px; border-radius: 8px; font-size: 14px; background: #1a1a1a; border: 1px solid #333; }
  .toast.success { border-color: #4ade80; color: #4ade80; }
  .toast.error { border-color: #f87171; color: #f87171; }
</style>
</head>
<body>
<h1>QR Studio</h1>
<p class="subtitle">Type a link or any text, style it, and download the QR code.</p>
<div class="grid">
  <div class="card">
    <div class="section">
      <span class="heading">URL Input</span>
      <input type="text" id="content" placeholder="https://example.com" autocomplete="off">
    </div>

    <div class="section">
      <span class="heading">Customization</span>
      <label>Colors</label>
      <div class="cols">
        <div>
          <span class="muted">Foreground</span>
          <div class="row">
            <input type="color" id="fg-picker">
            <input type="text" id="fg-text">
          </div>
        </div>
        <div>
          <span class="muted">Background</span>
          <div class="row">
            <input type="color" id="bg-picker">
            <input type="text" id="bg-text">
          </div>
        </div>
      </div>
      <p class="warn" id="color-hint"></p>

      <div class="section">
        <label>Style</label>
        <div class="cols">
          <button type="button" id="style-square" data-style="square">Squares</button>
          <button type="button" id="style-dots" data-style="dots">Dots</button>
        </div>
      </div>

      <div class="section">
        <label class="size-label"><span>Size</span><span class="muted" id="size-value"></span></label>
        <input type="range" id="size">
      </div>

      <div class="section">
        <label for="level">Error Correction</label>
        <select id="level"></select>
      </div>
    </div>

    <div class="section">
      <span class="heading">Download</span>
      <div class="cols">
        <button type="button" class="primary" id="dl-png" data-format="png" disabled>PNG</button>
        <button type="button" id="dl-svg" data-format="svg" disabled>SVG</button>
      </div>
    </div>
  </div>

  <div class="card">
    <div id="preview-box">
      <span id="placeholder">Type something to see a preview</span>
      <img id="preview" alt="QR Code preview">
    </div>
    <p class="hint">Live preview of your QR code</p>
  </div>
</div>
<div id="toasts"></div>
<script>
(function() {
  var $ = function(id) { return document.getElementById(id); };
  var lastSeq = 0;
  var shownRevision = null;
  var shownEngine = null;

  function render(state) {
    var c = state.config;
    if (document.activeElement !== $('content')) $('content').value = c.content;
    if (document.activeElement !== $('fg-text')) $('fg-text').value = c.foreground;
    if (document.activeElement !== $('bg-text')) $('bg-text').value = c.background;
    if (/^#[0-9a-fA-F]{6}$/.test(c.foreground)) $('fg-picker').value = c.foreground;
    if (/^#[0-9a-fA-F]{6}$/.test(c.background)) $('bg-picker').value = c.background;

    $('color-hint').textContent = (state.warnings || []).join(' · ');

    var size = $('size');
    size.min = state.bounds.min; size.max = state.bounds.max; size.step = state.bounds.step;
    size.value = c.size;
    $('size-value').textContent = c.size + 'px';

    var level = $('level');
    if (!level.options.length) {
      state.levels.forEach(function(l) {
        var opt = document.createElement('option');
        opt.value = l.value;
        opt.textContent = l.label;
        level.appendChild(opt);
      });
    }
    level.value = c.error_correction;

    $('style-square').className = c.style === 'square' ? 'active' : '';
    $('style-dots').className = c.style === 'dots' ? 'active' : '';

    $('dl-png').disabled = !state.initialized;
    $('dl-svg').disabled = !state.initialized;

    if (state.initialized && (state.revision !== shownRevision || state.engine_id !== shownEngine)) {
      shownRevision = state.revision;
      shownEngine = state.engine_id;
      var img = $('preview');
      img.src = '/preview.png?rev=' + state.revision;
      img.style.display = 'block';
      $('placeholder').style.display = 'none';
    }
  }

  function update(patch) {
    fetch('/api/config', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(patch)
    })
      .then(function(r) { return r.json(); })
      .then(function(data) {
        if (data.error) { toast('error', data.error); return; }
        render(data);
        pollNotifications();
      })
      .catch(function() { toast('error', 'Connection error'); });
  }

  function toast(level, message) {
    var el = document.createElement('div');
    el.className = 'toast ' + level;
    el.textContent = message;
    $('toasts').appendChild(el);
    setTimeout(function() { if (el.parentNode) el.parentNode.removeChild(el); }, 4000);
  }

  function pollNotifications() {
    fetch('/api/notifications?after=' + lastSeq)
      .then(function(r) { return r.json(); })
      .then(function(data) {
        (data.notifications || []).forEach(function(n) {
          if (n.seq > lastSeq) toast(n.level, n.message);
        });
        if (data.last_seq > lastSeq) lastSeq = data.last_seq;
      })
      .catch(function() {});
  }

  function download(format) {
    fetch('/export/' + format)
      .then(function(r) {
        if (r.status === 204) return null;
        return r.blob().then(function(blob) {
          if (!r.ok) return null;
          var name = 'qrcode.' + format;
          var cd = r.headers.get('Content-Disposition') || '';
          var m = /filename="?([^";]+)"?/.exec(cd);
          if (m) name = m[1];
          var a = document.createElement('a');
          a.href = URL.createObjectURL(blob);
          a.download = name;
          document.body.appendChild(a);
          a.click();
          setTimeout(function() { URL.revokeObjectURL(a.href); a.parentNode.removeChild(a); }, 0);
        });
      })
      .catch(function() {})
      .then(pollNotifications);
  }

  $('content').addEventListener('input', function(e) { update({ content: e.target.value }); });
  $('fg-picker').addEventListener('input', function(e) { update({ foreground: e.target.value }); });
  $('fg-text').addEventListener('input', function(e) { update({ foreground: e.target.value }); });
  $('bg-picker').addEventListener('input', function(e) { update({ background: e.target.value }); });
  $('bg-text').addEventListener('input', function(e) { update({ background: e.target.value }); });
  $('size').addEventListener('input', function(e) { update({ size: parseInt(e.target.value, 10) }); });
  $('level').addEventListener('change', function(e) { update({ error_correction: e.target.value }); });
  $('style-square').addEventListener('click', function() { update({ style: 'square' }); });
  $('style-dots').addEventListener('click', function() { update({ style: 'dots' }); });
  $('dl-png').addEventListener('click', function() { download('png'); });
  $('dl-svg').addEventListener('click', function() { download('svg'); });

  fetch('/api/state')
    .then(function(r) { return r.json(); })
    .then(render);
  fetch('/api/notifications')
    .then(function(r) { return r.json(); })
    .then(function(data) { lastSeq = data.last_seq || 0; });
  setInterval(pollNotifications, 3000);
})();
</script>
</body>
</html>`
