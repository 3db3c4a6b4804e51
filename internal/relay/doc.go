// Package relay turns a webhook invocation into one temi request on the broker.
//
// The flow is strictly sequential:
//
//	DecodeLocation → Message.Encode → Publisher.Publish → Success / Failure
//
// The webhook body is base64 of an application/x-www-form-urlencoded form
// (a Slack slash command, for example). Its "text" field names the location
// the temi robot should go to. A missing field is not an error; the message
// then carries "location": null.
//
// Handler.Handle is the function entry point. It never returns a Go error:
// publish failures become a 500 response whose body is the error text.
package relay
