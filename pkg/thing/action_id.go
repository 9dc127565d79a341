package thing

import "github.com/google/uuid"

func defaultActionID() string {
	return uuid.NewString()
}
