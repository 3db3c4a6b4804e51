package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// invokeResult is the response shape the function returns to the gateway.
type invokeResult struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func newInvokeCmd(opts *rootOptions) *cobra.Command {
	var form string

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run the webhook handler locally with a synthetic event",
		Long: `invoke base64-encodes --form as the gateway would, runs the same handler as the
function and prints {"statusCode":...,"body":...}. A non-200 status is an error.`,
		Example: `  temirelayctl invoke --form 'text=ConferenceRoomA'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := opts.load(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			event := syntheticEvent(form)
			resp, err := a.Handler.Handle(ctx, event)
			if err != nil {
				return err
			}

			out, err := json.Marshal(invokeResult{StatusCode: resp.StatusCode, Body: resp.Body})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("handler returned status %d", resp.StatusCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form, "form", "", "form-encoded webhook body, e.g. text=ConferenceRoomA")
	cmd.MarkFlagRequired("form")

	return cmd
}

// syntheticEvent builds the API Gateway event a webhook POST of form produces.
func syntheticEvent(form string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/temi",
		Headers:         map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:            base64.StdEncoding.EncodeToString([]byte(form)),
		IsBase64Encoded: true,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "local-" + uuid.NewString(),
		},
	}
}
