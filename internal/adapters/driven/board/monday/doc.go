// Package monday implements the board client against the monday.com
// GraphQL v2 API. The board ID and the column-id mapping come from
// configuration; item data never drives which columns are read or
// written. Column values are sent as a JSON-encoded string inside the
// GraphQL variables, which is what the API requires.
package monday
