package ast

type BoolConst struct {
	Value bool
}

func BoolTrue() BoolConst {
	return BoolConst{Value: true}
}

func BoolFalse() BoolConst {
	return BoolConst{Value: false}
}

func (b BoolConst) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

func (b BoolConst) Not() BoolConst {
	return BoolConst{Value: !b.Value}
}

func (b BoolConst) And(o BoolConst) BoolConst {
	return BoolConst{Value: b.Value && o.Value}
}

func (b BoolConst) Or(o BoolConst) BoolConst {
	return BoolConst{Value: b.Value || o.Value}
}

func (b BoolConst) Xor(o BoolConst) BoolConst {
	return BoolConst{Value: b.Value != o.Value}
}
