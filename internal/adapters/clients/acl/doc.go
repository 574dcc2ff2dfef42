// Package acl is the access layer between callers and the metadata server.
// It keeps the server's wire representation out of the domain.
//
// # Call Lifecycle
//
// Every operation follows the same steps:
//
//  1. Validate parameters locally ([ValidateIdentity], [ValidateIdentifier],
//     [ValidateName], [ValidateEnum], [PagingPolicy.Validate]). Nothing is
//     sent when a check fails.
//  2. Issue one request through a [Caller]. Faults that leave no envelope
//     become a [domain.PropertyServerError].
//  3. Decode the envelope once ([envelope.Decode]) into a [domain.TypedFailure].
//  4. [Narrow] the failure to the variants the operation declares. Anything
//     else is wrapped in a [domain.PropertyServerError] caused by it.
//  5. Decode the payload and translate it into domain types.
//
// [Invoke] composes steps 2 to 5.
//
// # Creating an Adapter
//
//	type ProjectClient struct {
//	    *acl.Caller
//	}
//
//	func (c *ProjectClient) FetchProject(ctx context.Context, userID, guid string) (*domain.Project, error) {
//	    const op = "fetchProject"
//	    if err := acl.ValidateIdentity(userID, op); err != nil {
//	        return nil, err
//	    }
//
//	    resp, err := acl.Invoke[projectResponse](ctx, c.Caller, op, fetchProjectURL,
//	        []any{serverName, userID, guid}, nil,
//	        domain.KindUnauthorized, domain.KindUnrecognizedIdentifier)
//	    if err != nil {
//	        return nil, err // always a domain.TypedFailure
//	    }
//
//	    return translate(resp.Element), nil
//	}
//
// See [ZoneClient] for a complete adapter.
package acl
