package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

var ingestPrefix string

func GetIngestCommand() *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest [local-dir]",
		Short: "Upload and index knowledge-base documents",
		Long: `Copies the documents in local-dir, when given, to the configured documents
location and then indexes everything under it to verify the load.

Examples:
  sales-assistant ingest
  sales-assistant ingest ./docs --prefix products`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}
	ingestCmd.Flags().StringVarP(&ingestPrefix, "prefix", "p", "", "Only index documents under this prefix")
	return ingestCmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg.Intent.Policy = "count"

	app, err := buildApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close(ctx)

	if len(args) == 1 {
		if !fileExists(args[0]) {
			return fmt.Errorf("directory %s does not exist", args[0])
		}
		source := url.Normalize(args[0], file.Scheme)
		if err := app.fs.Copy(ctx, source, cfg.Documents.BaseURL); err != nil {
			return fmt.Errorf("upload documents: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s\n", args[0], cfg.Documents.BaseURL)
	}

	count, err := app.knowledge.Reindex(ctx, ingestPrefix)
	if err != nil {
		return fmt.Errorf("index documents: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents\n", count)
	return nil
}
