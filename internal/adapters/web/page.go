package web

var pageTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root { --bg: #121212; --card: #1e1e1e; --text: #e0e0e0; --accent: #ff4444; }
        body { background: var(--bg); color: var(--text); font-family: system-ui, sans-serif; display: grid; place-items: center; min-height: 100vh; margin: 0; }
        .container { background: var(--card); padding: 2rem; border-radius: 12px; box-shadow: 0 10px 30px rgba(0,0,0,0.5); width: 90%; max-width: 720px; }
        h1 { margin: 0 0 1rem; font-size: 1.5rem; color: var(--accent); text-align: center; }
        .input-section { display: flex; gap: 8px; }
        input { flex: 1; padding: 12px; border: 1px solid #333; border-radius: 6px; background: #252525; color: #fff; outline: none; }
        input:focus { border-color: var(--accent); }
        button { padding: 12px 16px; border: none; border-radius: 6px; background: var(--accent); color: white; font-weight: bold; cursor: pointer; }
        button:disabled { background: #555; cursor: not-allowed; }
        .error { color: var(--accent); font-size: 0.9rem; }
        .transcript-box { margin-top: 20px; }
        pre { background: #252525; padding: 12px; border-radius: 6px; max-height: 60vh; overflow: auto; white-space: pre-wrap; }
        [hidden] { display: none; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <div class="input-section">
            <input type="text" id="link" placeholder="{{.Placeholder}}">
            <button id="fetch">{{.FetchLabel}}</button>
        </div>
        <p class="error" id="error" hidden></p>
        <div class="transcript-box" id="box" hidden>
            <pre id="transcript"></pre>
            <button id="copy">Copy Transcript</button>
        </div>
    </div>

    <script>
        const link = document.getElementById('link'),
              fetchBtn = document.getElementById('fetch'),
              errEl = document.getElementById('error'),
              box = document.getElementById('box'),
              pre = document.getElementById('transcript');
        let transcript = '';

        fetchBtn.onclick = async () => {
            errEl.hidden = true;
            box.hidden = true;
            transcript = '';
            fetchBtn.disabled = true;
            fetchBtn.textContent = {{.LoadingLabel}};

            try {
                const resp = await fetch('{{.APIPath}}?link=' + encodeURIComponent(link.value));
                const data = await resp.json();
                if (data.error) throw new Error(data.error);
                transcript = data.transcript;
                pre.textContent = transcript;
                box.hidden = transcript === '';
            } catch (e) {
                errEl.textContent = e.message;
                errEl.hidden = false;
            } finally {
                fetchBtn.disabled = false;
                fetchBtn.textContent = {{.FetchLabel}};
            }
        };

        document.getElementById('copy').onclick = () => {
            navigator.clipboard.writeText(transcript).then(() => {
                alert({{.CopyConfirmation}});
            }).catch(err => {
                console.error('Failed to copy: ', err);
            });
        };
    </script>
</body>
</html>
`
