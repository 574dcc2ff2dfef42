// Package envelope implements the response envelope exchanged with the
// metadata server and the protocol that carries typed failures across it.
//
// Every response is a single JSON object. Success responses carry
// operation-specific payload fields next to relatedHTTPCode; failure
// responses name the failure variant in exceptionClassName and carry its
// structured fields in exceptionProperties:
//
//	{
//	  "relatedHTTPCode": 404,
//	  "exceptionClassName": "unrecognized-identifier",
//	  "exceptionErrorMessage": "The governance zone abc-123 ...",
//	  "exceptionSystemAction": "...",
//	  "exceptionUserAction": "...",
//	  "exceptionProperties": {"identifier": "abc-123", "expectedTypeName": "GovernanceZone"},
//	  "exceptionCausedBy": null
//	}
//
// The server side builds envelopes with [FromFailure] and [Success]. The
// client side parses them with [Parse], reconstructs the failure with
// [Decode], and reads the payload with [DecodePayload].
//
// Decoding never fails: missing or malformed properties yield zero values,
// and a tag this package does not know becomes a property server failure
// so that no failure is ever read as success.
package envelope
