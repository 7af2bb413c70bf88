package entry

import "html/template"

var categoryOptions = []string{"Aman", "Waspada", "Bahaya"}

type loginData struct {
	Error string
}

type entryData struct {
	Username   string
	SessionLat float64
	SessionLon float64
	Form       formState
	Message    string
	Warning    string
	Error      string
	Categories []string
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Login - Input Data</title>
<style>
  body { font-family: sans-serif; max-width: 420px; margin: 60px auto; padding: 0 16px; }
  label { display: block; margin-top: 12px; }
  input { width: 100%; padding: 8px; box-sizing: border-box; }
  button { margin-top: 16px; padding: 8px 24px; }
  .error { color: #b71c1c; margin-top: 12px; }
</style>
</head>
<body>
<h3>&#128274; Halaman Input Terproteksi</h3>
<form method="post" action="/entry/login">
  <label>Username <input type="text" name="username" autocomplete="username"></label>
  <label>Password <input type="password" name="password" autocomplete="current-password"></label>
  <button type="submit">Masuk</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<p><a href="/">&larr; Kembali ke peta</a></p>
</body>
</html>
`))

var entryTemplate = template.Must(template.New("entry").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Input Data - {{.Username}}</title>
<style>
  body { font-family: sans-serif; max-width: 640px; margin: 24px auto; padding: 0 16px; }
  label { display: block; margin-top: 12px; }
  input, textarea, select { width: 100%; padding: 8px; box-sizing: border-box; }
  textarea { min-height: 80px; }
  button { margin-top: 16px; padding: 8px 24px; }
  .row { display: flex; gap: 12px; }
  .row label { flex: 1; }
  .message { color: #2e7d32; margin-top: 12px; }
  .warning { color: #ef6c00; margin-top: 12px; }
  .error { color: #b71c1c; margin-top: 12px; }
  .topbar { display: flex; justify-content: space-between; align-items: center; }
</style>
</head>
<body>
<div class="topbar">
  <h3>&#128221; Input Data: {{.Username}}</h3>
  <form method="post" action="/entry/logout"><button type="submit">Keluar</button></form>
</div>

{{if .Message}}<p class="message">{{.Message}}</p>{{end}}
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}

<p>&#128205; Klik tombol di bawah untuk update lokasi GPS</p>
<button type="button" id="gps-btn">Update Lokasi GPS</button>
<span id="gps-status"></span>

<form method="post" action="/entry/submit" enctype="multipart/form-data" id="entry-form">
  <label>Nama Lokasi <input type="text" name="nama" value="{{.Form.Name}}"></label>
  <div class="row">
    <label>Lat <input type="text" name="latitude" id="lat" value="{{.Form.Latitude}}"></label>
    <label>Lon <input type="text" name="longitude" id="lon" value="{{.Form.Longitude}}"></label>
  </div>
  <label>Risiko
    <select name="kategori">
      {{$selected := .Form.Category}}
      {{range .Categories}}
      <option value="{{.}}"{{if eq . $selected}} selected{{end}}>{{.}}</option>
      {{end}}
    </select>
  </label>
  <label>Keterangan <textarea name="keterangan">{{.Form.Description}}</textarea></label>
  <label>Foto (kamera atau berkas)
    <input type="file" name="foto" accept="image/jpeg,image/png" capture="environment">
  </label>
  <button type="submit" id="submit-btn">&#128640; Kirim Data</button>
</form>

<p><a href="/">Lihat peta</a></p>

<script>
  document.getElementById('gps-btn').addEventListener('click', function () {
    var status = document.getElementById('gps-status');
    if (!navigator.geolocation) {
      status.textContent = 'Perangkat tidak mendukung GPS.';
      return;
    }
    status.textContent = 'Mencari lokasi…';
    navigator.geolocation.getCurrentPosition(function (pos) {
      fetch('/entry/location', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ latitude: pos.coords.latitude, longitude: pos.coords.longitude })
      }).then(function (res) { return res.json(); }).then(function (body) {
        document.getElementById('lat').value = body.latitude.toFixed(6);
        document.getElementById('lon').value = body.longitude.toFixed(6);
        status.textContent = 'Lokasi Terkunci!';
      }).catch(function () {
        status.textContent = 'Gagal menyimpan lokasi.';
      });
    }, function () {
      // No reading: leave the previous coordinate untouched.
      status.textContent = 'Lokasi tidak tersedia.';
    });
  });

  // Transient in-progress indicator while upload + persist run.
  document.getElementById('entry-form').addEventListener('submit', function () {
    var btn = document.getElementById('submit-btn');
    btn.disabled = true;
    btn.textContent = 'Mengirim…';
  });
</script>
</body>
</html>
`))
