package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(games []GameSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>UNO Tally</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">UNO Tally</span>
        <h1>Keep score. Settle arguments.</h1>
        <p>Start a game, add points after every hand, and first to 500 wins.</p>
      </header>

      <section class="panel">
        <div>
          <h2>Active games</h2>
        </div>
        <ul id="gameList" class="game-list">`)
		for _, game := range games {
			_, _ = io.WriteString(w, `
          <li><a href="/games/`+templ.EscapeString(game.ID)+`">`+templ.EscapeString(game.ID)+`</a> <span class="muted">`+itoa(game.Players)+` players</span></li>`)
		}
		if len(games) == 0 {
			_, _ = io.WriteString(w, `
          <li class="muted">No games running. Start one below.</li>`)
		}
		_, _ = io.WriteString(w, `
        </ul>
      </section>

      <section class="panel">
        <div>
          <h2>New game</h2>
          <p>One name per line, two to ten players.</p>
        </div>
        <form id="createForm" class="create-form">
          <textarea name="players" rows="4" placeholder="Alice&#10;Bob" required></textarea>
          <button type="submit" class="primary">Start game</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        createResult.textContent = "Starting game...";
        const players = createForm.elements.players.value
          .split("\n")
          .map((name) => name.trim())
          .filter((name) => name.length > 0);
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ players })
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Failed to start game.";
          return;
        }
        window.location.href = "/games/" + encodeURIComponent(data.game_id);
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}
