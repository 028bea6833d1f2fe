package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [pdf]",
	Short: "List or print the recognized sections of a paper",
	Long: `Sections extracts the paper's text and reports which sections were
recognized (abstract, introduction, methods, results, conclusion). With
--show it prints one section's text instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

func init() {
	sectionsCmd.Flags().String("show", "", "print the named section's text")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	parser, err := newParser(args[0])
	if err != nil {
		return err
	}

	show, _ := cmd.Flags().GetString("show")
	if show != "" {
		text, err := parser.Section(show)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	sections, err := parser.Sections()
	if err != nil {
		return err
	}

	for _, s := range sections {
		fmt.Printf("%-14s %6d chars\n", s.Name, len(s.Text))
	}
	return nil
}
