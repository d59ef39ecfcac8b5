package sessionsredisstore

// Encode and Decode expose the hash codec to the external tests.
var (
	Encode = encode
	Decode = decode
)
