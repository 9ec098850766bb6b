package services

// Authorize is the single ownership predicate used before every update or
// delete across the engines: an actor may only mutate resources they own.
// A zero actorID means no authenticated caller and never authorizes.
func Authorize(actorID, ownerID uint) bool {
	return actorID != 0 && actorID == ownerID
}
