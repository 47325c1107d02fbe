// Package services implements the driving port interfaces.
//
// DocumentController and QueryController each own one slice of client
// state and talk to one driven port. Dashboard is the only component
// that sees both; it turns user intents into controller calls and
// sends the explicit RefreshRequest that follows a successful upload.
package services
