package domain

// DamageResult - итог получения урона
type DamageResult struct {
	Amount   int  `json:"amount"`   // входящий урон
	Absorbed int  `json:"absorbed"` // поглощено бронёй
	ToHP     int  `json:"toHp"`     // снято HP
	Killed   bool `json:"killed"`   // этот удар убил (true ровно один раз)
	Dead     bool `json:"dead"`
}

// TakeDamage наносит урон. Сначала поглощает броня (и расходуется), остаток уходит в HP.
// Killed == true только для удара, переведшего сущность в мёртвые.
func (e *Entity) TakeDamage(amount int) DamageResult {
	if e.IsDead || amount <= 0 {
		return DamageResult{Dead: e.IsDead}
	}

	res := DamageResult{Amount: amount}

	absorbed := amount
	if absorbed > e.Defense {
		absorbed = e.Defense
	}
	if absorbed < 0 {
		absorbed = 0
	}
	e.Defense -= absorbed
	res.Absorbed = absorbed

	toHP := amount - absorbed
	if toHP > e.HP {
		toHP = e.HP
	}
	e.HP -= toHP
	res.ToHP = toHP

	if e.HP <= 0 {
		e.HP = 0
		e.IsDead = true
		res.Killed = true
	}
	res.Dead = e.IsDead
	return res
}

// HealResult - итог лечения
type HealResult struct {
	Healed int `json:"healed"`
	HP     int `json:"hp"`
}

// TakeHeal лечит сущность, не выше MaxHP. Трупы не лечатся.
func (e *Entity) TakeHeal(amount int) HealResult {
	if e.IsDead || amount <= 0 {
		return HealResult{HP: e.HP}
	}
	before := e.HP
	e.HP += amount
	if e.HP > e.MaxHP {
		e.HP = e.MaxHP
	}
	return HealResult{Healed: e.HP - before, HP: e.HP}
}

// HasAP проверяет, хватает ли очков действий
func (e *Entity) HasAP(cost int) bool {
	return e.AP >= cost
}

// SpendAP тратит очки действий. Возвращает false, если не хватило.
func (e *Entity) SpendAP(cost int) bool {
	if e.AP < cost {
		return false
	}
	e.AP -= cost
	return true
}

// RefillAP - начисление в начале хода: min(AP + grant, MaxAP)
func (e *Entity) RefillAP(grant int) {
	e.AP += grant
	if e.AP > e.MaxAP {
		e.AP = e.MaxAP
	}
	if e.AP < 0 {
		e.AP = 0
	}
}
