/*
Package value converts raw backend column values to the scalar and temporal
types exposed by the SDK.

Values arrive as engine-native bytes plus a NULL flag and are reinterpreted
per request: the same column can be read as a string, a number or a
timestamp. Numeric parses consume the whole value; trailing characters fail
with sdk.ErrConversion, as do textual NaN and infinity forms.
*/
package value
