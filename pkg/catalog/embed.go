package catalog

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed catalog.yaml
var embeddedCatalog embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded English catalog. The document ships with the
// module so callers get a working lookup table without any configuration; it
// panics only if the embedded document itself is broken, which is a build
// defect rather than a runtime condition.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadFS(embeddedCatalog, "catalog.yaml")
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", defaultErr))
	}
	return defaultCatalog
}
