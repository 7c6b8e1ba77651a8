package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/documind-ai/documind/internal/core/domain"
)

var uploadWorkers int

var uploadCmd = &cobra.Command{
	Use:   "upload [file]...",
	Short: "Upload documents for indexing",
	Long: `Uploads one or more files to the ingestion endpoint. Processing
happens asynchronously; use 'documind status' commands or the API to
watch a document move from uploaded to ready.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().IntVar(&uploadWorkers, "workers", 4, "parallel uploads")
	rootCmd.AddCommand(uploadCmd)
}

type uploadOutcome struct {
	path string
	doc  domain.Document
	err  error
}

func runUpload(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	outcomes := uploadAll(cmd, client, args, uploadWorkers)

	failed := 0
	for _, outcome := range outcomes {
		if outcome.err != nil {
			failed++
			cmd.Printf("  FAIL %s: %v\n", outcome.path, outcome.err)
			continue
		}
		cmd.Printf("  OK   %s -> %s\n", outcome.path, outcome.doc.ID)
	}
	cmd.Printf("%d uploaded, %d failed\n", len(outcomes)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(outcomes))
	}
	return nil
}

// uploadAll pushes every path through a bounded pool and preserves the
// input order in the returned outcomes.
func uploadAll(cmd *cobra.Command, client *Client, paths []string, workers int) []uploadOutcome {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	outcomes := make([]uploadOutcome, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				var doc domain.Document
				err := client.UploadFile(cmd.Context(), paths[i], &doc)
				outcomes[i] = uploadOutcome{path: paths[i], doc: doc, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
