// Package rule turns validation directives into typed rule descriptors.
//
// A directive is a space separated list of tokens attached to a field:
//
//	req len:5-16 regex:username
//
// Each token names a rule and, optionally, colon separated parameters. Range
// parameters use a dash (`len:5-16`, `checkbox:topics:1-3`). Parsing happens
// once when a form is assembled; evaluation works on the resulting Set, whose
// order is the order rules run in and decides which failure is reported.
//
// Supported tokens:
//
//	req                          Required
//	len:<min>-<max>              Length (inclusive bounds)
//	regex:<preset>               Pattern (see package pattern)
//	match:<field>                MatchField
//	radio:<group>                RadioGroupRequired
//	checkbox:<group>:<min>-<max> CheckboxGroupCount
//	select-req                   SelectRequired
//	select                       SelectAlwaysValid
//	or:<field>:<label>           EitherOr
package rule
