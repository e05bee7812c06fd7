// Package status contains the collaborators a validation pass reports to: a
// Sink that shows each field's outcome and a Gate that enables or disables
// submission from the aggregate validity.
//
// Sinks receive (name, valid, message) once per field per pass. Rendering
// choices such as icons, classes or the success text belong to the sink.
package status
