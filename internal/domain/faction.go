package domain

// AreEnemies - чистая функция враждебности.
// Враги, если хотя бы у одного нет команды или команды различаются. Себе не враг.
func AreEnemies(a, b *Entity) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	if a.TeamID == "" || b.TeamID == "" {
		return true
	}
	return a.TeamID != b.TeamID
}

// SameGroup - совпадение командных ID (в том числе оба пустые).
// Используется при сборе соседей в бой, поэтому бескомандные монстры собираются вместе.
func SameGroup(a, b *Entity) bool {
	return a.TeamID == b.TeamID
}

// TeamKey - ключ команды в бою: бескомандная сущность образует команду из себя
func TeamKey(e *Entity) string {
	if e.TeamID == "" {
		return e.ID
	}
	return e.TeamID
}
