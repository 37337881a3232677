package pgtype

// unknownTextCaster decodes text in the client encoding of the connection, or
// UTF-8 without one.
type unknownTextCaster struct{}

func (unknownTextCaster) NewCaster(oid OID, ci ConnInfo) Caster {
	decode := textDecoder(clientEncoding(ci))
	return CastFunc(func(src []byte) (any, error) {
		return decode(src)
	})
}

// castUnknownBinary returns a copy of binary payloads, unchanged.
func castUnknownBinary(src []byte) (any, error) {
	buf := make([]byte, len(src))
	copy(buf, src)
	return buf, nil
}

// The fallback casters must be in place before anything can look up a caster.
func init() {
	globalRegistry.setCaster(casterKey{oid: UnknownOID, format: TextFormat}, unknownTextCaster{})
	globalRegistry.setCaster(casterKey{oid: UnknownOID, format: BinaryFormat}, CastFunc(castUnknownBinary))

	registerBuiltins(globalRegistry)
}
