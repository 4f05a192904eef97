// Package pipeline fetches student results from a result portal.
//
// A Pipeline drives one browser.Session through the fetch protocol for a
// single roll number: navigate to the profile's source URL, fill the roll
// and semester controls, submit, then either detect the missing-student
// page or read the result fields. Each run walks a small state machine
// (see State) and ends in StateDone or StateFatal.
//
// A BatchRunner feeds many rolls through one session in input order. Missing
// students are recorded as unsuccessful rows and the batch continues; any
// Failure aborts the whole batch and no partial results are returned.
package pipeline
