package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/stickstrike/arena/pkg/geometry"
	"github.com/stickstrike/arena/pkg/messages"
	"nhooyr.io/websocket"
)

// A small terminal client for poking at the arena server: connect,
// list rooms, join one, move around, land hits.
func main() {
	serverURL := flag.String("server", "ws://localhost:8080/ws", "WebSocket server URL")
	flag.Parse()

	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, *serverURL, nil)
	if err != nil {
		color.Red("Failed to connect to %s: %v", *serverURL, err)
		os.Exit(1)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	color.Green("Connected to %s", *serverURL)

	go readLoop(ctx, conn)

	scanner := bufio.NewScanner(os.Stdin)
	printHelp()
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "help":
			printHelp()
			continue
		case "quit", "exit":
			return
		}

		frame, err := buildFrame(fields)
		if err != nil {
			color.Yellow("%v", err)
			continue
		}
		if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
			color.Red("Write failed: %v", err)
			return
		}
	}
}

// buildFrame turns a command line into a protocol frame.
func buildFrame(fields []string) ([]byte, error) {
	switch fields[0] {
	case "rooms":
		return marshal(map[string]interface{}{"type": messages.TypeGetRooms})
	case "create":
		name := strings.Join(fields[1:], " ")
		return marshal(map[string]interface{}{"type": messages.TypeCreateRoom, "name": name})
	case "join":
		if len(fields) < 2 {
			return nil, fmt.Errorf("usage: join <roomId>")
		}
		return marshal(map[string]interface{}{"type": messages.TypeJoinRoom, "roomId": fields[1]})
	case "leave":
		return marshal(map[string]interface{}{"type": messages.TypeLeaveRoom})
	case "move":
		if len(fields) < 3 {
			return nil, fmt.Errorf("usage: move <x> <y>")
		}
		position, err := parseVector(fields[1], fields[2])
		if err != nil {
			return nil, err
		}
		return marshal(map[string]interface{}{"type": messages.TypePosition, "position": position})
	case "hit":
		if len(fields) < 2 {
			return nil, fmt.Errorf("usage: hit <targetId> [x y]")
		}
		frame := map[string]interface{}{"type": messages.TypeHit, "targetId": fields[1]}
		if len(fields) >= 4 {
			hitPoint, err := parseVector(fields[2], fields[3])
			if err != nil {
				return nil, err
			}
			frame["hitPoint"] = hitPoint
		}
		return marshal(frame)
	default:
		return nil, fmt.Errorf("unknown command %q, try help", fields[0])
	}
}

func marshal(frame map[string]interface{}) ([]byte, error) {
	return json.Marshal(frame)
}

func parseVector(xs, ys string) (*geometry.Vector2, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return nil, fmt.Errorf("bad x coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return nil, fmt.Errorf("bad y coordinate %q", ys)
	}
	return &geometry.Vector2{X: x, Y: y}, nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, payload, err := conn.Read(ctx)
		if err != nil {
			color.Red("\nConnection closed: %v", err)
			os.Exit(0)
		}
		printEvent(payload)
		fmt.Print("> ")
	}
}

func printEvent(payload []byte) {
	var envelope messages.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		color.Yellow("\n<- %s", payload)
		return
	}
	switch envelope.Type {
	case messages.TypeError:
		color.Red("\n<- %s", payload)
	case messages.TypeGameStarted, messages.TypeHitConfirmed:
		color.Green("\n<- %s", payload)
	case messages.TypeGameState:
		color.Cyan("\n<- %s", payload)
	default:
		color.White("\n<- %s", payload)
	}
}

func printHelp() {
	fmt.Println("commands:")
	fmt.Println("  rooms                list joinable rooms")
	fmt.Println("  create [name]        create a room")
	fmt.Println("  join <roomId>        join a room")
	fmt.Println("  leave                leave the current room")
	fmt.Println("  move <x> <y>         send a position update")
	fmt.Println("  hit <targetId> [x y] hit a target, optionally at a point")
	fmt.Println("  quit                 exit")
}
