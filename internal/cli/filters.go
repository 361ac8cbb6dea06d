package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ning0612/foldercrawler/internal/domain"
	"github.com/Ning0612/foldercrawler/internal/query"
)

// filterFlags are the five query parameters shared by crawl and show
type filterFlags struct {
	path        string
	size        uint64
	sizeSign    string
	changed     string
	changedSign string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.path, "fpath", "", "keep paths containing this text (case-insensitive)")
	fl.Uint64Var(&f.size, "fsize", 0, "size threshold in bytes")
	fl.StringVar(&f.sizeSign, "fsizesgn", ">=", "size comparison: >= or <=")
	fl.StringVar(&f.changed, "fchanged", "", `date threshold: "YYYY", "YYYY-MM", "YYYY-MM-DD", "YYYY-MM-DD hh", "YYYY-MM-DD hh:mm" or "YYYY-MM-DD hh:mm:ss"`)
	fl.StringVar(&f.changedSign, "fchangedsgn", ">=", "date comparison: >= or <=")
}

func (f *filterFlags) build() (query.Filter, error) {
	sizeSign, err := query.ParseSign(f.sizeSign)
	if err != nil {
		return query.Filter{}, err
	}
	dateSign, err := query.ParseSign(f.changedSign)
	if err != nil {
		return query.Filter{}, err
	}
	date, err := query.ParseDate(f.changed)
	if err != nil {
		return query.Filter{}, err
	}

	return query.Filter{
		Path:     f.path,
		Size:     f.size,
		SizeSign: sizeSign,
		Date:     date,
		DateSign: dateSign,
	}, nil
}

// kindFlags select which partitions are printed
type kindFlags struct {
	files   bool
	folders bool
	skipped bool
}

func (k *kindFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&k.files, "files", false, "print files")
	fl.BoolVar(&k.folders, "folders", false, "print folders")
	fl.BoolVar(&k.skipped, "skipped", false, "print skipped items")
}

// selected returns the chosen kinds in display order; files when none is set
func (k *kindFlags) selected() []domain.Kind {
	var kinds []domain.Kind
	if k.folders {
		kinds = append(kinds, domain.KindFolders)
	}
	if k.files {
		kinds = append(kinds, domain.KindFiles)
	}
	if k.skipped {
		kinds = append(kinds, domain.KindSkipped)
	}
	if len(kinds) == 0 {
		kinds = []domain.Kind{domain.KindFiles}
	}
	return kinds
}
