package email

const (
	subjectPendingAlert     = "Rezerwacja oczekuje na weryfikację"
	subjectPendingDigestFmt = "Oczekujące rezerwacje: %d do weryfikacji"
)
