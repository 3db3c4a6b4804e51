package relay

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// SuccessMessage is returned, JSON-encoded, when the message reached the broker.
const SuccessMessage = "request sent to temi"

// successBody is SuccessMessage as a JSON string; a string literal always marshals.
var successBody, _ = json.Marshal(SuccessMessage)

// Success returns the 200 response: {"statusCode":200,"body":"\"request sent to temi\""}.
func Success() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(successBody),
	}
}

// Failure returns the 500 response whose body is the error text.
func Failure(err error) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       err.Error(),
	}
}
