package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/zzenonn/zhost/internal/domain"
)

var quiet bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [host]",
	Short: "Print the bucket a host is served from",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApp(ctx)

		bucket, err := a.Mappings.Bucket(ctx, args[0])
		if err != nil {
			fmt.Printf("Error resolving host: %v\n", err)
			return
		}
		fmt.Printf("%s -> %s\n", args[0], bucket)
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [host] [path]",
	Short: "Run a request through the router and write the body",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := newApp(ctx)

		req := domain.Request{Headers: map[string]string{"host": args[0]}}
		if len(args) == 2 {
			req.Path = args[1]
		}

		resp, err := a.Router.Handle(ctx, req)
		if err != nil {
			fmt.Printf("Error fetching: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "%d %s\n", resp.StatusCode, resp.ContentType())

		body, err := resp.DecodedBody()
		if err != nil {
			fmt.Printf("Error decoding body: %v\n", err)
			return
		}

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			os.Stdout.Write(body)
			return
		}

		// Create output directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			return
		}

		outFile, err := os.Create(outputPath)
		if err != nil {
			fmt.Printf("Error creating output file: %v\n", err)
			return
		}
		defer outFile.Close()

		var out io.Writer = outFile
		if !quiet {
			bar := progressbar.DefaultBytes(int64(len(body)), "writing")
			out = io.MultiWriter(outFile, bar)
		}

		if _, err := io.Copy(out, bytes.NewReader(body)); err != nil {
			fmt.Printf("Error writing file: %v\n", err)
			return
		}
		fmt.Printf("Saved %s%s -> %s\n", args[0], req.Path, outputPath)
	},
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "", "Write the body to a file instead of stdout")
	fetchCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress bars")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(fetchCmd)
}
