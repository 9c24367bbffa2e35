package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// GameView renders the live scoreboard for one game. All state comes from
// the API and the game websocket; the page itself is static.
func GameView(gameID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>UNO Tally - `+templ.EscapeString(gameID)+`</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body data-game-id="`+templ.EscapeString(gameID)+`">
    <main class="shell">
      <header class="hero">
        <span class="tag">UNO Tally</span>
        <h1 id="gameTitle">`+templ.EscapeString(gameID)+`</h1>
        <p id="gameStatus"></p>
      </header>

      <section class="panel">
        <table class="scoreboard">
          <thead>
            <tr><th>Player</th><th>Points</th><th></th></tr>
          </thead>
          <tbody id="players"></tbody>
        </table>
      </section>

      <section class="panel">
        <h2>Hands</h2>
        <ul id="hands" class="hand-list"></ul>
      </section>

      <section class="panel actions">
        <button id="endGame" class="secondary">End game</button>
        <button id="playAgain" class="primary">Play again</button>
        <div id="actionResult" class="result"></div>
      </section>
    </main>

    <script>
      const gameID = document.body.dataset.gameId;
      const playersBody = document.getElementById("players");
      const handsList = document.getElementById("hands");
      const statusLine = document.getElementById("gameStatus");
      const actionResult = document.getElementById("actionResult");

      function render(game) {
        statusLine.textContent = game.winner_name
          ? game.winner_name + " wins!"
          : game.status;
        playersBody.innerHTML = "";
        for (const player of game.players) {
          const row = document.createElement("tr");
          const name = document.createElement("td");
          name.textContent = player.name;
          const points = document.createElement("td");
          points.textContent = player.points;
          const actions = document.createElement("td");
          if (game.status === "active") {
            const input = document.createElement("input");
            input.type = "number";
            input.min = "1";
            input.placeholder = "Points";
            const btn = document.createElement("button");
            btn.textContent = "Add";
            btn.addEventListener("click", () => addPoints(player.id, input.value));
            actions.append(input, btn);
          }
          row.append(name, points, actions);
          playersBody.append(row);
        }
        handsList.innerHTML = "";
        for (const hand of game.hand_histories) {
          const item = document.createElement("li");
          item.textContent = hand.player_name + " +" + hand.points_received;
          handsList.append(item);
        }
      }

      async function load() {
        const res = await fetch("/api/games/" + encodeURIComponent(gameID));
        if (!res.ok) {
          statusLine.textContent = "Game not found.";
          return;
        }
        const data = await res.json();
        render(data.game);
      }

      async function addPoints(playerID, raw) {
        const points = parseInt(raw, 10);
        if (!points || points < 1) {
          actionResult.textContent = "Enter a positive number of points.";
          return;
        }
        const res = await fetch("/api/games/" + encodeURIComponent(gameID) + "/players/" + playerID + "/add-points", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ points })
        });
        const data = await res.json();
        if (!res.ok) {
          actionResult.textContent = data.error || "Failed to add points.";
          return;
        }
        actionResult.textContent = data.message;
        render(data.game);
      }

      document.getElementById("endGame").addEventListener("click", async () => {
        const res = await fetch("/api/games/" + encodeURIComponent(gameID) + "/end", { method: "POST" });
        const data = await res.json();
        if (!res.ok) {
          actionResult.textContent = data.error || "Failed to end game.";
          return;
        }
        render(data.game);
      });

      document.getElementById("playAgain").addEventListener("click", async () => {
        const res = await fetch("/api/games/" + encodeURIComponent(gameID) + "/play-again", { method: "POST" });
        const data = await res.json();
        if (!res.ok) {
          actionResult.textContent = data.error || "Failed to start a new game.";
          return;
        }
        window.location.href = "/games/" + encodeURIComponent(data.game_id);
      });

      const proto = window.location.protocol === "https:" ? "wss" : "ws";
      const socket = new WebSocket(proto + "://" + window.location.host + "/ws/games/" + encodeURIComponent(gameID));
      socket.addEventListener("message", (event) => {
        render(JSON.parse(event.data));
      });

      load();
    </script>
  </body>
</html>
`)
		return nil
	})
}
