// Command schema dumps the JSON schema of the server-push message
// catalogue, for client authors targeting the wire protocol.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	server "game-connect/server"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "output path for the JSON schema (default stdout)")
	flag.Parse()

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	catalogue := []any{
		server.ConnectionEstablished{},
		server.JoinRejected{},
		server.LobbyState{},
		server.GameStarting{},
		server.TurnChange{},
		server.MoveResult{},
		server.ChatBroadcast{},
		server.GameStateUpdate{},
		server.GameOver{},
	}

	schemas := make(map[string]*jsonschema.Schema, len(catalogue))
	for _, msg := range catalogue {
		t := reflect.TypeOf(msg)
		schema := reflector.ReflectFromType(t)
		schema.Version = ""
		schemas[t.Name()] = schema
	}

	data, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		log.Fatalf("schema: marshal: %v", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("schema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("schema: write: %v", err)
	}
}
