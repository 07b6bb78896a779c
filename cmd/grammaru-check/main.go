// Command grammaru-check reads Russian text from stdin (or -in) and prints
// the words whose н/нн spelling looks wrong.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/grammaru/pkg/grammaru/algorithm"
	"github.com/cognicore/grammaru/pkg/grammaru/algorithms/nncheck"
	"github.com/cognicore/grammaru/pkg/grammaru/index"
)

func main() {
	var (
		vocabPath  = flag.String("vocab", "", "Vocabulary JSON file (required)")
		inPath     = flag.String("in", "", "Input text file (default stdin)")
		paragraphs = flag.String("paragraphs", "", "Comma-separated paragraph ids to check (default all)")
		asJSON     = flag.Bool("json", false, "Print issues as JSON")
	)
	flag.Parse()

	if *vocabPath == "" {
		log.Fatal("--vocab required")
	}

	words, err := index.ReadDictionary(*vocabPath)
	if err != nil {
		log.Fatal("Failed to load vocabulary:", err)
	}
	alg, err := nncheck.New(words)
	if err != nil {
		log.Fatal("Failed to build checker:", err)
	}

	var in io.Reader = os.Stdin
	if *inPath != "" {
		fh, err := os.Open(*inPath)
		if err != nil {
			log.Fatal("Failed to open input:", err)
		}
		defer fh.Close()
		in = fh
	}
	text, err := io.ReadAll(in)
	if err != nil {
		log.Fatal("Failed to read input:", err)
	}

	set, err := parseParagraphs(*paragraphs)
	if err != nil {
		log.Fatal(err)
	}

	res, err := alg.RunOnString(string(text), set)
	if err != nil {
		log.Fatal("Check failed:", err)
	}
	issues := nncheck.Issues(res.Frame)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if issues == nil {
			issues = []nncheck.Issue{}
		}
		if err := enc.Encode(issues); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, is := range issues {
		fmt.Printf("paragraph %d, sentence %d, word %d: %s -> %s\n",
			is.ParagraphID, is.SentenceID, is.WordIndex, is.Word, is.Suggestion)
	}
	fmt.Printf("\nChecked %d words, flagged %d\n", res.Applied.Checked, res.Applied.Flagged)
	if len(issues) > 0 {
		os.Exit(2)
	}
}

// parseParagraphs turns "0,2" into a paragraph set; empty means all.
func parseParagraphs(s string) (algorithm.Paragraphs, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid paragraph id %q", part)
		}
		ids = append(ids, id)
	}
	return algorithm.ParagraphSet(ids...), nil
}
