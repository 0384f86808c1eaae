package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/bonsaidb/trie-reader/service/engine"
	"github.com/bonsaidb/trie-reader/service/inspector"
	"github.com/bonsaidb/trie-reader/trie"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	var (
		flagDBPath     string
		flagLevel      string
		flagOp         string
		flagTrie       string
		flagIdentifier string
		flagPath       string
		flagKey        string
		flagBlock      uint64
	)

	pflag.StringVarP(&flagDBPath, "db-path", "d", "", "path to the persisted Bonsai store")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagOp, "op", "o", "columns", "operation: columns|root|node|leaf|diff|proof")
	pflag.StringVarP(&flagTrie, "trie", "t", "contract", "trie kind: contract|storage|class")
	pflag.StringVar(&flagIdentifier, "identifier", "", "hex Felt identifier (required for storage trie)")
	pflag.StringVar(&flagPath, "path", "", "hex path_hex for the node operation")
	pflag.StringVar(&flagKey, "key", "", "hex Felt key for the leaf/proof operations")
	pflag.Uint64Var(&flagBlock, "block", 0, "block number for the diff operation")
	pflag.Parse()

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	if flagDBPath == "" {
		log.Error().Msg("missing required flag --db-path")
		return failure
	}

	kind, ok := trie.ParseKind(flagTrie)
	if !ok {
		log.Error().Str("trie", flagTrie).Msg("unknown trie kind")
		return failure
	}

	insp, openResp := inspector.Open(log, flagDBPath)
	if !openResp.OK {
		msg := ""
		if openResp.Error != nil {
			msg = *openResp.Error
		}
		log.Error().Str("db_path", flagDBPath).Str("error", msg).Msg("could not open store")
		return failure
	}

	err = engine.Run(log, "bonsai-inspect", sig, func() error {
		return emitQuery(insp, kind, flagOp, flagIdentifier, flagPath, flagKey, flagBlock)
	})
	if err != nil {
		return failure
	}

	return success
}

func emitQuery(insp *inspector.Inspector, kind trie.Kind, op, identifier, pathHex, keyHex string, block uint64) error {
	var doc any
	switch op {
	case "columns":
		doc = insp.Columns()
	case "root":
		doc = insp.Root(kind, identifier)
	case "node":
		doc = insp.Node(kind, identifier, pathHex)
	case "leaf":
		doc = insp.Leaf(kind, identifier, keyHex)
	case "diff":
		doc = insp.Diff(kind, block)
	case "proof":
		doc = insp.Proof(kind, identifier, keyHex)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
