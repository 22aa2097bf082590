package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"conversational-recommendation/internal/taxonomy"
)

// Lints a taxonomy file before it is rolled out: structural validation plus
// a per-language summary, so a broken table is caught here and not by the
// API's reload loop.
//
// Usage: go run scripts/taxonomy-lint/main.go -file taxonomy.yaml
func main() {
	file := flag.String("file", "taxonomy.yaml", "path to the taxonomy file")
	language := flag.String("default-language", "en", "default extraction language the service will run with")
	flag.Parse()

	v := viper.New()
	v.SetConfigFile(*file)
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Failed to read %s: %v\n", *file, err)
		os.Exit(1)
	}

	var tax taxonomy.Taxonomy
	if err := v.Unmarshal(&tax); err != nil {
		fmt.Printf("Failed to decode %s: %v\n", *file, err)
		os.Exit(1)
	}

	snapshot := taxonomy.New(tax, *language)

	fmt.Printf("Taxonomy %s\n", snapshot.Version)
	fmt.Printf("  %d concrete categories, %d parents\n", len(snapshot.Categories), len(snapshot.Parents))
	for _, lr := range snapshot.Keywords {
		patterns := 0
		for _, rule := range lr.Rules {
			patterns += len(rule.Patterns)
		}
		fmt.Printf("  language %-5s %3d rules, %3d patterns\n", lr.Language, len(lr.Rules), patterns)
	}

	problems := snapshot.Validate()
	if len(problems) == 0 {
		fmt.Println("OK")
		return
	}

	fmt.Printf("%d problem(s):\n", len(problems))
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	os.Exit(1)
}
