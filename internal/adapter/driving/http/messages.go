package httphandler

import "github.com/ericfisherdev/repobrowser/internal/domain/model"

// ErrorMessage maps a fetch error kind to the message shown to users.
func ErrorMessage(err model.FetchError) string {
	switch err.Kind {
	case model.FetchErrorInvalidInput:
		return "Please enter a GitHub username."
	case model.FetchErrorInvalidAddress:
		return "The repositories address for this user is invalid."
	case model.FetchErrorDecodingFailed:
		return "The repositories could not be read from the server response."
	case model.FetchErrorUnknown:
		if err.Detail != "" {
			return "Something went wrong: " + err.Detail
		}
		return "Something went wrong."
	default:
		return "Something went wrong."
	}
}
