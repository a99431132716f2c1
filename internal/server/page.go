package server

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Fourier Transform Image Filtering</title>
<style>
body { font-family: sans-serif; margin: 1.5em; background: #fafafa; }
.controls { display: flex; gap: 1.5em; align-items: center; margin-bottom: 1em; }
.panels { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1em; }
figure { margin: 0; background: #fff; padding: .5em; border: 1px solid #ddd; }
figure img { width: 100%; image-rendering: pixelated; background: #000; }
figcaption { text-align: center; font-size: .9em; margin-top: .3em; }
pre { white-space: pre-wrap; background: #fff; border: 1px solid #ddd; padding: 1em; }
#status { color: #666; }
#status.error { color: #b00; }
</style>
</head>
<body>
<h1>Fourier Transform Image Filtering</h1>
<div class="controls">
  <label>Radius
    <input id="radius" type="range" min="{{.MinRadius}}" max="{{.MaxRadius}}" value="{{.Radius}}">
    <span id="radius-value">{{.Radius}}</span>
  </label>
  <label>Image <input id="upload" type="file" accept="image/*"></label>
  <span id="status">connecting</span>
</div>
<div class="panels">
{{range .Panels}}  <figure><img id="panel-{{.Name}}" alt="{{.Title}}"><figcaption>{{.Title}}</figcaption></figure>
{{end}}</div>
<h2>Explanation</h2>
<pre>{{.Explanation}}</pre>
<script>
(function () {
  const status = document.getElementById("status");
  const slider = document.getElementById("radius");
  const label = document.getElementById("radius-value");
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "/ws");

  function setStatus(text, isError) {
    status.textContent = text;
    status.className = isError ? "error" : "";
  }

  ws.onopen = function () { setStatus("connected", false); };
  ws.onclose = function () { setStatus("disconnected", true); };
  ws.onmessage = function (ev) {
    const msg = JSON.parse(ev.data);
    if (msg.error) {
      setStatus(msg.error, true);
      return;
    }
    for (const name in msg.panels) {
      const img = document.getElementById("panel-" + name);
      if (img) img.src = "data:image/png;base64," + msg.panels[name];
    }
    slider.value = msg.radius;
    label.textContent = msg.radius;
    setStatus(msg.cols + "x" + msg.rows + ", low-pass keeps " +
      (100 * msg.low_energy).toFixed(1) + "% of the energy", false);
  };

  slider.oninput = function () { label.textContent = slider.value; };
  slider.onchange = function () {
    ws.send(JSON.stringify({ radius: parseInt(slider.value, 10) }));
  };

  document.getElementById("upload").onchange = function (ev) {
    const file = ev.target.files[0];
    if (!file) return;
    const reader = new FileReader();
    reader.onload = function () {
      const data = reader.result.substring(reader.result.indexOf(",") + 1);
      setStatus("uploading", false);
      ws.send(JSON.stringify({ image: data }));
    };
    reader.readAsDataURL(file);
  };
})();
</script>
</body>
</html>
`
