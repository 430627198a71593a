package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"voightkampff/internal/app/domain/dialog"
	"voightkampff/internal/app/infrastructure/resources"
)

// dialogmatch answers "which dialog file would have produced this
// sentence" without a running assistant, using the same matcher the
// feature steps use. Handy when a reply-with-example step fails and
// the trace is too long to eyeball.
func main() {
	skillsDir := flag.String("skills", "/opt/mycroft/skills", "skills root directory")
	skill := flag.String("skill", "", "skill directory name")
	lang := flag.String("lang", "en-us", "language tag")
	flag.Parse()

	sentence := strings.ToLower(strings.Join(flag.Args(), " "))
	if *skill == "" || sentence == "" {
		fmt.Fprintln(os.Stderr, "usage: dialogmatch -skill <name> [-skills <dir>] [-lang <tag>] <sentence>")
		os.Exit(2)
	}

	resolver := resources.NewResolver(*skillsDir)
	skillPath, err := resolver.FindSkill(*skill)
	if err != nil {
		log.Fatal(err)
	}

	loader := resources.NewLoader(*lang)
	sets, err := loader.LoadAll(skillPath)
	if err != nil {
		log.Fatal(err)
	}

	trace := &dialog.Trace{}
	name, ok := dialog.BestMatch(sets, sentence, trace)

	fmt.Print(trace.String())
	if !ok {
		fmt.Printf("no dialog of %s matches %q\n", *skill, sentence)
		os.Exit(1)
	}
	fmt.Printf("best match: %s\n", name)
}
