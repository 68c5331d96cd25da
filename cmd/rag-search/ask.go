package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	httpclient "rag-search/internal/common/http"
	"rag-search/internal/models"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a running rag-search server a question",
	Long: `Ask posts the query to a rag-search server's /query endpoint and prints the
answer. Non-2xx responses are printed with their status and error code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return ask(ctx, cmd.OutOrStdout(), server, strings.Join(args, " "), asJSON)
	},
}

func init() {
	askCmd.Flags().String("server", "http://localhost:5001", "rag-search server base URL")
	askCmd.Flags().Duration("timeout", 2*time.Minute, "request timeout")
	askCmd.Flags().Bool("json", false, "print the raw JSON response")
	rootCmd.AddCommand(askCmd)
}

func ask(ctx context.Context, out io.Writer, server, query string, asJSON bool) error {
	client := httpclient.NewClient(0, "rag-search-cli/"+version)
	resp, err := client.PostJSON(ctx, strings.TrimRight(server, "/")+"/query", nil, models.AnswerRequest{Query: query})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := httpclient.ReadBody(resp, 0)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if jerr := json.Unmarshal(body, &errResp); jerr != nil || errResp.Error == "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return fmt.Errorf("server returned %d (%s): %s", resp.StatusCode, errResp.Code, errResp.Error)
	}

	if asJSON {
		_, err = fmt.Fprintln(out, strings.TrimSpace(string(body)))
		return err
	}

	var answer models.AnswerResponse
	if err := json.Unmarshal(body, &answer); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	_, err = fmt.Fprintln(out, answer.Answer)
	return err
}
