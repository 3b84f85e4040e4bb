/*
Package sqltime parses engine-native temporal text into SQL Date, Time and
DateTime values and Unix timestamps.

Engines hand temporal columns to the SDK as text (or numeric epoch seconds).
The parse functions here resolve those forms into calendar and clock fields
in an explicit timezone; there is no ambient-global timezone dependence.
Unparsable input fails with an error wrapping sdk.ErrConversion.
*/
package sqltime
