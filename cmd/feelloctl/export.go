package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/infblueocean/feello/internal/question"
)

func runExport(args []string) error {
	fs := pflag.NewFlagSet("export", pflag.ExitOnError)
	format := fs.StringP("format", "f", "json", "Output format: json or yaml")
	out := fs.StringP("output", "o", "", "Write to this file instead of stdout")
	_ = fs.Parse(args)

	if *format != "json" && *format != "yaml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", *format)
	}

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	qs, err := st.List(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := writeQuestions(w, qs, *format); err != nil {
		return err
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "exported %d questions to %s\n", len(qs), *out)
	}
	return nil
}

// writeQuestions encodes the collection. JSON is indented and keeps the
// field names of the original backup format.
func writeQuestions(w io.Writer, qs []question.Question, format string) error {
	if qs == nil {
		qs = []question.Question{}
	}
	switch format {
	case "yaml":
		data, err := question.MarshalYAML(qs)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(qs)
	}
}
