package service

// UnknownEmailHash exposes the hash compared against for unknown emails.
func (s *AuthService) UnknownEmailHash() string { return s.dummyHash }
