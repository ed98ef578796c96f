package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docrender/internal/build"
	"git.home.luguber.info/inful/docrender/internal/docset"
)

// TocCmd implements the 'toc' command.
type TocCmd struct {
	Format string   `short:"f" help:"Output format" enum:"yaml,json" default:"yaml"`
	Source []string `short:"s" help:"Source directory replacing the sources of every guide set" type:"path"`
}

type tocDump struct {
	Set     string             `json:"set" yaml:"set"`
	Name    string             `json:"name" yaml:"name"`
	Entries []*docset.TocEntry `json:"entries" yaml:"entries"`
}

func (t *TocCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	project, err := build.NewBuildService().WithLogger(g.logger()).Plan(build.BuildRequest{Config: cfg, Sources: t.Source})
	if err != nil {
		return err
	}

	var dump []tocDump
	for _, v := range project.Versions {
		for _, set := range v.Sets {
			for _, toc := range set.Tocs {
				dump = append(dump, tocDump{Set: set.Name, Name: toc.Name, Entries: toc.Roots()})
			}
		}
	}
	return writeTocs(g.out(), t.Format, dump)
}

func writeTocs(w io.Writer, format string, dump []tocDump) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dump); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported toc format %q", format)
	}
}
