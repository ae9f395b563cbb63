// Copyright 2026 Docmorph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/docmorph/docmorph"
)

var version = "dev"

func main() {
	var (
		target      string
		outDir      string
		template    string
		noTool      bool
		showVersion bool
	)

	flag.StringVarP(&target, "to", "t", "", "Target format for Markdown inputs: pdf (default) or docx")
	flag.StringVarP(&outDir, "out", "o", "", "Output directory (default: alongside each input)")
	flag.StringVar(&template, "template", "", "Reference container for external-tool styling")
	flag.BoolVar(&noTool, "no-tool", false, "Disable the external converter tool")
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docmorph [flags] file...\n\n")
		fmt.Fprintf(os.Stderr, "Convert documents between PDF, Word-style containers, OpenDocument text, and Markdown.\n")
		fmt.Fprintf(os.Stderr, "Non-Markdown inputs convert to Markdown; Markdown converts to PDF or, with -t docx,\n")
		fmt.Fprintf(os.Stderr, "to a Word-style container.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("docmorph %s\n", version)
		os.Exit(0)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := []docmorph.Option{docmorph.WithExternalTool(!noTool)}
	if template != "" {
		opts = append(opts, docmorph.WithReferenceTemplate(template))
	}
	engine := docmorph.New(opts...)

	inputs := make([]docmorph.BatchInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		inputs = append(inputs, docmorph.BatchInput{Name: filepath.Base(p), Data: data})
	}

	failed := false
	items := engine.ConvertBatch(inputs, target)
	for i, item := range items {
		if item.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", item.Name, item.Err)
			failed = true
			continue
		}
		dest := item.Result.Filename
		if outDir != "" {
			dest = filepath.Join(outDir, dest)
		} else {
			dest = filepath.Join(filepath.Dir(paths[i]), dest)
		}
		if err := os.WriteFile(dest, item.Result.Data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", item.Name, err)
			failed = true
			continue
		}
		fmt.Printf("%s -> %s (%d words, %d pages, %s)\n",
			item.Name, dest, item.Result.Meta.Words, item.Result.Meta.Pages, item.Result.Meta.Duration.Round(time.Millisecond))
	}

	if failed {
		os.Exit(1)
	}
}
