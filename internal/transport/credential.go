package transport

const redactedCredentialConstant = "[redacted]"

// Credential is the bearer token identifying the report provider. Its
// formatted forms are redacted so it cannot reach logs by accident.
type Credential string

// String implements fmt.Stringer.
func (credential Credential) String() string {
	return redactedCredentialConstant
}

// GoString implements fmt.GoStringer.
func (credential Credential) GoString() string {
	return redactedCredentialConstant
}

// Empty reports whether no token was supplied.
func (credential Credential) Empty() bool {
	return len(credential) == 0
}

func (credential Credential) bearerValue() string {
	return bearerSchemePrefixConstant + string(credential)
}
