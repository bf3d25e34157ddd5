// Package protocol translates request envelopes into outbound calls and
// normalizes what comes back.
//
// Two handlers share one envelope schema. The HTTP handler places params in
// the query string for get, head and delete and in a JSON body otherwise;
// the SOAP handler renders ordered params into a SOAP 1.1 envelope. Both
// relay any upstream status verbatim as a success-shaped response. Only a
// missing response is an error.
//
// Handlers never perform I/O themselves: the outbound call goes through the
// Exchanger supplied by the regional actor, which pins the egress path and
// releases the actor's turn for the duration of the call.
package protocol
