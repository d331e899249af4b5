// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides voter identity and ID utilities.

# Origin Tokens

Voters are anonymous. Each request is reduced to an origin token, an
HMAC-SHA256 of the client network address keyed with ORIGIN_SALT:

	token := auth.OriginToken(middleware.GetClientIP(r, trustProxy), salt)

The token is hex encoded (first 16 bytes of the MAC). It is deterministic,
so the same address always maps to the same voter, and the address itself
never reaches the database.

This is a weak identity: everyone behind one NAT or proxy shares a token, and
switching networks gives a new one.

# IDs

Poll, option and vote IDs are random UUIDs:

	id := auth.NewID()
	id, err := auth.NormalizeID(r.PathValue("id"))
*/
package auth
