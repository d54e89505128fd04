// Package jalali converts between Jalali (Solar Hijri) calendar dates and
// canonical Gregorian dates.
//
// Two representations meet here:
//   - Local dates: "YYYY/MM/DD" in the Jalali calendar, typed by users with
//     Persian, Arabic-Indic or ASCII digits.
//   - Canonical dates: "YYYY-MM-DD" in the Gregorian calendar, used for
//     storage and comparison.
//
// Leap years follow the astronomical rule as approximated by the break-year
// table of Borkowski, which agrees with the observed vernal equinox for
// years 1 through 3177 AP. Outside that range every conversion fails.
//
// # Failure policy
//
// Parsing never returns an error to callers that only need a filter bound:
// ToCanonical and ToLocalString return "" for any malformed input so that
// an empty result can be treated as "unbounded". Callers that need to tell
// the difference use ParseLocal, which reports success as a bool.
package jalali
