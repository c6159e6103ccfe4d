// cmd/photo-seo/main.go
package main

import (
	"github.com/bstardust/photo-seo-enricher/pkg/cli"
)

func main() {
	cli.Execute()
}
