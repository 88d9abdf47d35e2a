/*
Command rowtree reads rows as JSON, arranges them as a tree by a path
field and prints the rows a grid would display.

	rowtree -i files.json --path-field path --sort size:desc --expand-depth -1
	rowtree -i files.json --filter "name endsWith .go" -o yaml
	rowtree dump -i files.json

Settings are taken from flags, ROWTREE_ environment variables, a YAML file
(--config, default ./rowtree.yaml) and built-in defaults, in this order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rowtree: %v\n", err)
		os.Exit(1)
	}
}
