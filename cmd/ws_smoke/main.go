// ws_smoke drives two clients through a full match against a running server:
// lobby admission, ready-up, join, and action execution until the game ends.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func send(conn *websocket.Conn, event string, payload any) {
	raw, _ := json.Marshal(payload)
	data, _ := json.Marshal(envelope{Type: event, Payload: raw})
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Fatalf("write %s: %v", event, err)
	}
}

// waitFor reads until an event of the wanted type arrives.
func waitFor(conn *websocket.Conn, want string, timeout time.Duration) envelope {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(timeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read while waiting for %s: %v", want, err)
		}
		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue
		}
		if env.Type == want {
			return env
		}
	}
	log.Fatalf("timed out waiting for %s", want)
	return envelope{}
}

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// 127.0.0.1 to prefer IPv4
	url := fmt.Sprintf("ws://127.0.0.1:%s/ws", port)

	connA, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	waitFor(connA, "player:assigned", 2*time.Second)
	waitFor(connB, "player:assigned", 2*time.Second)

	send(connA, "player:ready", map[string]bool{"ready": true})
	send(connB, "player:ready", map[string]bool{"ready": true})

	conns := []*websocket.Conn{connA, connB}
	for _, conn := range conns {
		env := waitFor(conn, "game:start", 10*time.Second)
		var start struct {
			MatchID  string `json:"match_id"`
			PlayerID string `json:"player_id"`
		}
		if err := json.Unmarshal(env.Payload, &start); err != nil {
			log.Fatalf("decode start: %v", err)
		}
		log.Printf("joining match %s as %s", start.MatchID, start.PlayerID)
		send(conn, "game:join", start)
	}

	// execute every task the moment it is assigned, on either connection
	done := make(chan bool, len(conns))
	for i, conn := range conns {
		go func(n int, conn *websocket.Conn) {
			for {
				conn.SetReadDeadline(time.Now().Add(30 * time.Second))
				_, msg, err := conn.ReadMessage()
				if err != nil {
					log.Printf("conn %d closed: %v", n, err)
					done <- false
					return
				}
				var env envelope
				if err := json.Unmarshal(msg, &env); err != nil {
					continue
				}
				switch env.Type {
				case "task:assigned":
					var task struct {
						ID string `json:"id"`
					}
					_ = json.Unmarshal(env.Payload, &task)
					send(conn, "action:execute", map[string]string{"id": task.ID})
				case "game:progress":
					log.Printf("conn %d progress: %s", n, env.Payload)
				case "game:ended":
					log.Printf("conn %d ended: %s", n, env.Payload)
					done <- true
					return
				}
			}
		}(i, conn)
	}

	for range conns {
		<-done
	}
	log.Println("smoke run complete")
}
