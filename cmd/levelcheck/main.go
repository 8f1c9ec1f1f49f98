// levelcheck loads the level catalog, every level it lists and every level
// script, and reports what each level would spawn. With -watch it re-runs
// whenever a file under the levels directory changes.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/snowfight/levels"
	"github.com/milk9111/snowfight/scene"
	"github.com/milk9111/snowfight/world"
)

type report struct {
	Index    scene.Index
	Name     string
	Walls    int
	Targets  int
	Spinners int
	Err      error
}

func main() {
	dir := flag.String("dir", levels.DiskDir, "levels directory that overrides the embedded files")
	watch := flag.Bool("watch", false, "re-check when level files change")
	flag.Parse()

	levels.DiskDir = *dir

	failed := run(os.Stdout)
	if !*watch {
		if failed {
			os.Exit(1)
		}
		return
	}

	w, err := levels.NewWatcher(*dir, filepath.Join(*dir, "scripts"))
	if err != nil {
		log.Fatalf("levelcheck: watch %s: %v", *dir, err)
	}
	defer w.Close()
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			fmt.Printf("\n%s changed\n", name)
			run(os.Stdout)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("levelcheck: watcher: %v", err)
		}
	}
}

// run checks the catalog and prints one line per level. It reports whether
// anything failed.
func run(out io.Writer) bool {
	cat, err := levels.LoadCatalog()
	if err != nil {
		fmt.Fprintf(out, "catalog: %v\n", err)
		return true
	}

	failed := false
	for _, r := range check(cat) {
		marker := ""
		if r.Index == cat.MenuIndex() {
			marker = " (menu)"
		}
		if r.Err != nil {
			failed = true
			fmt.Fprintf(out, "%2d %-12s FAIL %v\n", r.Index, r.Name+marker, r.Err)
			continue
		}
		fmt.Fprintf(out, "%2d %-12s ok   walls=%d targets=%d spinners=%d\n",
			r.Index, r.Name+marker, r.Walls, r.Targets, r.Spinners)
	}
	return failed
}

// check builds every level in cat into a scratch world so physics shapes
// are exercised along with the files and scripts.
func check(cat *levels.Catalog) []report {
	reports := make([]report, 0, cat.Count())
	for i := range cat.Entries {
		index := scene.Index(i)
		entry := cat.Entries[i]
		r := report{Index: index, Name: entry.Name}

		layer, err := world.BuildLayer(index, entry)
		if err == nil {
			w := world.New()
			if err = w.Attach(layer); err == nil {
				err = w.Detach(index)
			}
		}
		if err != nil {
			r.Err = err
		} else {
			r.Walls, r.Targets, r.Spinners = len(layer.Walls), len(layer.Targets), len(layer.Spinners)
		}
		reports = append(reports, r)
	}
	return reports
}
