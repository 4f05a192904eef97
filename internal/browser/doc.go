// Package browser drives the result portal page for the extraction pipeline.
//
// A Session exposes the small set of blocking primitives the pipeline needs:
// open a URL, fill a text control, select a dropdown option, click a control,
// read an element's text and search the page source. Two backends implement it:
//   - RodSession: a headless Chromium instance controlled through go-rod
//   - FormSession: plain HTTP form submission with pages parsed by goquery
//
// Every failure is a *SessionError unwrapping to ErrUnreachable or
// ErrElementNotFound. Sessions are not safe for concurrent use and must be
// closed by whoever opened them.
package browser
