package systems

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"

	lua "github.com/yuin/gopher-lua"
)

const defaultScriptTimeout = 50 * time.Millisecond

// ScriptEffect - эффект, сила которого считается Lua-формулой.
// Положительный результат - урон, отрицательный - лечение.
// В скрипте доступны таблицы caster и target и число amount.
type ScriptEffect struct {
	Timeout time.Duration
}

func NewScriptEffect(timeout time.Duration) *ScriptEffect {
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	return &ScriptEffect{Timeout: timeout}
}

func (s *ScriptEffect) Apply(ctx EffectContext) (domain.EffectResult, error) {
	value, err := EvalScript(ctx.Template.Script, ctx.Caster, ctx.Target, ctx.Template.Amount, s.Timeout)
	if err != nil {
		return domain.EffectResult{}, err
	}

	out := domain.EffectResult{TargetID: ctx.Target.ID, Effect: domain.EffectScript}
	if value >= 0 {
		res := ctx.Target.TakeDamage(value)
		out.Damage = &res
	} else {
		out.Healed = ctx.Target.TakeHeal(-value).Healed
	}
	out.HP = ctx.Target.HP
	return out, nil
}

// EvalScript выполняет формулу в песочнице (только base и math, без доступа к файлам)
func EvalScript(src string, caster, target *domain.Entity, amount int, timeout time.Duration) (int, error) {
	if src == "" {
		return amount, nil
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return 0, fmt.Errorf("open lua lib %q: %w", lib.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("caster", entityTable(L, caster))
	L.SetGlobal("target", entityTable(L, target))
	L.SetGlobal("amount", lua.LNumber(amount))

	if err := L.DoString(src); err != nil {
		return 0, fmt.Errorf("script effect: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("script effect must return a number, got %s", ret.Type().String())
	}
	return int(math.Round(float64(n))), nil
}

func entityTable(L *lua.LState, e *domain.Entity) *lua.LTable {
	tbl := L.NewTable()
	if e == nil {
		return tbl
	}
	L.SetField(tbl, "hp", lua.LNumber(e.HP))
	L.SetField(tbl, "maxHp", lua.LNumber(e.MaxHP))
	L.SetField(tbl, "attack", lua.LNumber(e.Attack))
	L.SetField(tbl, "defense", lua.LNumber(e.Defense))
	L.SetField(tbl, "ap", lua.LNumber(e.AP))
	L.SetField(tbl, "initiative", lua.LNumber(e.Initiative))
	return tbl
}
