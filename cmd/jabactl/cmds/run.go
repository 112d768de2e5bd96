package cmds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Bab4nI/Jaba/internal/types"
)

func parseContentID(raw string) (*uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content id: %w", err)
	}
	return &id, nil
}

var (
	runServerURL string
	runKeyID     string
	runToken     string
	runLanguage  string
	runStdin     string
	runContentID string
)

// run submits a local source file to a running server and prints the judged
// result, useful for smoke testing a deployment with a real key.
var runCmd = &cobra.Command{
	Use:   "run [source file]",
	Short: "Submit a source file to a running server for execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "runCmd")
		defer span.End()

		span.SetAttributes(
			attribute.String("source.path", args[0]),
			attribute.String("language", runLanguage),
		)

		source, err := os.ReadFile(args[0])
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read source file")
			return fmt.Errorf("failed to read source file: %w", err)
		}

		reqData := types.ExecutionRequest{
			SourceCode: string(source),
			LanguageID: runLanguage,
			Stdin:      runStdin,
		}
		if runContentID != "" {
			contentID, err := parseContentID(runContentID)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to parse content id")
				return err
			}
			reqData.ContentID = contentID
		}

		body, err := json.Marshal(reqData)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to serialize request")
			return fmt.Errorf("failed to serialize request: %w", err)
		}

		span.AddEvent("submitting to server")
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodPost,
			runServerURL+"/v1/execute/",
			bytes.NewReader(body),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to build request")
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(runKeyID, runToken)

		// the server holds the connection for the whole judge poll loop
		client := &http.Client{Timeout: 2 * time.Minute}
		resp, err := client.Do(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "request failed")
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read response")
			return fmt.Errorf("failed to read response: %w", err)
		}

		span.SetAttributes(attribute.Int("response.status", resp.StatusCode))

		if resp.StatusCode != http.StatusOK {
			span.SetStatus(codes.Error, "server rejected the submission")
			return fmt.Errorf(
				"server returned %d: %s",
				resp.StatusCode,
				string(respBody),
			)
		}

		var result types.ExecutionResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse response")
			return fmt.Errorf("failed to parse response: %w", err)
		}

		fmt.Printf("status:  %s (%d)\n", result.Status.Description, result.Status.ID)
		if result.Time != "" {
			fmt.Printf("time:    %ss\n", result.Time)
		}
		if result.Memory != 0 {
			fmt.Printf("memory:  %d KB\n", result.Memory)
		}
		if result.CompileOutput != "" {
			fmt.Printf("compile output:\n%s\n", result.CompileOutput)
		}
		if result.Stdout != "" {
			fmt.Printf("stdout:\n%s\n", result.Stdout)
		}
		if result.Stderr != "" {
			fmt.Printf("stderr:\n%s\n", result.Stderr)
		}
		if result.Progress != nil {
			fmt.Printf(
				"progress: %d/%d completed=%t\n",
				result.Progress.Score,
				result.Progress.MaxScore,
				result.Progress.Completed,
			)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "submission finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().
		StringVar(&runServerURL, "server", "http://localhost:8080", "Base URL of the server")
	runCmd.Flags().StringVar(&runKeyID, "key-id", "", "API key id")
	runCmd.Flags().StringVar(&runToken, "token", "", "API key token")
	runCmd.Flags().StringVar(&runLanguage, "language", "", "Language name, e.g. python")
	runCmd.Flags().StringVar(&runStdin, "stdin", "", "Stdin passed to the program")
	runCmd.Flags().
		StringVar(&runContentID, "content-id", "", "Content id to record progress against")

	if err := runCmd.MarkFlagRequired("key-id"); err != nil {
		panic(err)
	}
	if err := runCmd.MarkFlagRequired("token"); err != nil {
		panic(err)
	}
	if err := runCmd.MarkFlagRequired("language"); err != nil {
		panic(err)
	}
}
