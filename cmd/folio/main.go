package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openfolio/folio/internal/book"
	"github.com/openfolio/folio/internal/config"
	"github.com/openfolio/folio/internal/converter"
	"github.com/openfolio/folio/internal/library"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Convert EPUB and PDF files into a paginated reading model",
	Long: `folio converts source documents (EPUB packages, PDF files) into a
normalized, chapter-by-chapter document model: extracted metadata,
relocated images, sanitized content, and a navigation tree, serialized
into an output directory for a reading frontend to consume.`,
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a source file into an output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourcePath := args[0]
		outDir, _ := cmd.Flags().GetString("output")
		if outDir == "" {
			outDir = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + "_data"
		}

		log.Printf("Converting: %s -> %s", sourcePath, outDir)

		b, err := converter.Convert(sourcePath, outDir)
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}

		printSummary(b)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <dir>",
	Short: "Print the summary of a converted book directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := book.LoadRecord(args[0])
		if err != nil {
			return err
		}
		printSummary(b)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the converted books in the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		lib, err := library.New(cfg)
		if err != nil {
			return err
		}

		entries, err := lib.List()
		if err != nil {
			return err
		}

		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\t%d chapters\n", e.ID, e.Title, e.Author, e.Chapters)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a source file into the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		lib, err := library.New(cfg)
		if err != nil {
			return err
		}

		b, id, err := lib.Import(args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		log.Printf("Imported as %s", id)
		printSummary(b)
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func printSummary(b *book.Book) {
	fmt.Printf("Title: %s\n", b.Metadata.Title)
	fmt.Printf("Authors: %s\n", b.Metadata.DisplayAuthors())
	fmt.Printf("Spine items: %d\n", len(b.Spine))
	fmt.Printf("TOC root items: %d\n", len(b.TOC))
	fmt.Printf("Images: %d\n", len(b.Images))
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output directory (default: source name with _data suffix)")
	listCmd.Flags().StringP("config", "c", "", "Config file path")
	importCmd.Flags().StringP("config", "c", "", "Config file path")
	rootCmd.AddCommand(convertCmd, inspectCmd, listCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
