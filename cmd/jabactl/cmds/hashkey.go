package cmds

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"
)

const generatedTokenBytes = 48

var hashKeyToken string

// hashkey produces the id and argon2id hash pair that goes into the api_keys
// section of the config. Without --token a random one is generated and printed
// once, it is not recoverable from the hash.
var hashKeyCmd = &cobra.Command{
	Use:   "hashkey",
	Short: "Generate an API key entry for the config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, span := tracer.Start(cmd.Context(), "hashKeyCmd")
		defer span.End()

		token := hashKeyToken
		if token == "" {
			raw := make([]byte, generatedTokenBytes)
			if _, err := rand.Read(raw); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to generate token")
				return err
			}
			token = base64.StdEncoding.EncodeToString(raw)
		}

		hash, err := argon2id.CreateHash(token, argon2id.DefaultParams)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to hash token")
			return err
		}

		fmt.Println("id:    " + uuid.New().String())
		fmt.Println("token: " + token)
		fmt.Println("hash:  " + hash)

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "generated key")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashKeyCmd)

	hashKeyCmd.Flags().
		StringVar(&hashKeyToken, "token", "", "Token to hash instead of generating one")
}
