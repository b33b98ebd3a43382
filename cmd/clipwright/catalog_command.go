package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"clipwright/internal/router"
)

type catalogEntry struct {
	Domain  string `json:"domain"`
	Command string `json:"command"`
	Usage   string `json:"usage"`
	Summary string `json:"summary"`
}

func newCommandsCommand() *cobra.Command {
	var domainFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "commands",
		Short:       "List the edit commands of each domain",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			domains := router.Domains()
			if domainFlag != "" {
				domain, err := router.ParseDomain(domainFlag)
				if err != nil {
					return err
				}
				domains = []router.Domain{domain}
			}
			if asJSON {
				var entries []catalogEntry
				for _, domain := range domains {
					for _, spec := range router.Specs(domain) {
						entries = append(entries, catalogEntry{
							Domain:  string(domain),
							Command: spec.Name,
							Usage:   spec.Usage(),
							Summary: spec.Summary,
						})
					}
				}
				return writeJSON(cmd, entries)
			}
			printCatalog(cmd.OutOrStdout(), domains)
			return nil
		},
	}

	cmd.Flags().StringVarP(&domainFlag, "domain", "d", "", "Only list one domain (text, subtitle, video, image, timeline, output)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}

func printCatalog(out io.Writer, domains []router.Domain) {
	for _, domain := range domains {
		fmt.Fprintf(out, "%s: %s\n", router.Label(domain), router.Purpose(domain))
		specs := router.Specs(domain)
		rows := make([][]string, 0, len(specs))
		for _, spec := range specs {
			rows = append(rows, []string{string(domain) + " " + spec.Usage(), spec.Summary})
		}
		fmt.Fprint(out, renderTable([]string{"Usage", "Summary"}, rows, nil))
	}
}
