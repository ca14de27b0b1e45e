// Command adcode looks up the bundled administrative division table.
//
//	adcode -code 330106
//	adcode -q 西湖
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/miyamo2/amap-flomo-mcp/infrastructure/adcode"
	"github.com/miyamo2/amap-flomo-mcp/internal/logger"
)

func main() {
	var (
		path  = flag.String("table", os.Getenv("ADCODE_TABLE"), "path to an adcode table; empty uses the bundled one")
		code  = flag.String("code", "", "print the division with this exact code")
		query = flag.String("q", "", "print divisions whose name contains this text, expanded to districts")
	)
	flag.Parse()
	l := logger.L()

	t, err := adcode.Source(*path)()
	if err != nil {
		l.Error("table_load_error", "err", err)
		os.Exit(1)
	}

	switch {
	case *code != "":
		loc, ok := t.Get(*code)
		if !ok {
			fmt.Fprintf(os.Stderr, "adcode %s not found\n", *code)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", loc.Code, loc.Name, t.FullName(loc), loc.ServiceCode)
	case *query != "":
		for _, loc := range t.Search(*query) {
			fmt.Printf("%s\t%s\t%s\n", loc.Code, loc.Name, loc.ServiceCode)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
