package httpserver

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Meter consumption</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
td, th { padding: .25rem .75rem; border-bottom: 1px solid #ddd; text-align: right; }
.derived { color: #888; font-style: italic; }
</style>
</head>
<body>
<h1>Monthly consumption</h1>
<form id="q">
  <select name="type"><option>power</option><option>gas</option><option>water</option></select>
  <input name="year" type="number" min="1900" max="9999" required>
  <button>Show</button>
</form>
<table id="out"></table>
<script>
document.getElementById('q').addEventListener('submit', async (ev) => {
  ev.preventDefault();
  const f = new FormData(ev.target);
  const res = await fetch('/api/consumption?type=' + f.get('type') + '&year=' + f.get('year'));
  const body = await res.json();
  const out = document.getElementById('out');
  if (!res.ok) { out.innerHTML = '<tr><td>' + body.message + '</td></tr>'; return; }
  out.innerHTML = '<tr><th>Month</th><th>Reading</th><th>Quality</th><th>Consumption</th></tr>' +
    body.points.map(p => '<tr class="' + (p.isDerived ? 'derived' : '') + '"><td>' + p.monthLabel +
      '</td><td>' + (p.current.meterReading ?? '') + '</td><td>' + p.current.quality +
      '</td><td>' + (p.consumption == null ? 'Insufficient data' : p.consumption.toFixed(2)) + '</td></tr>').join('');
});
</script>
</body>
</html>
`
