package dhry

import "bytes"

type enumeration int

const (
	ident1 enumeration = iota
	ident2
	ident3
	ident4
	ident5
)

type str30 [31]byte

func newStr30(s string) str30 {
	var b str30
	copy(b[:], s)

	return b
}

func (s *str30) String() string {
	n := bytes.IndexByte(s[:], 0)
	if n < 0 {
		n = len(s)
	}

	return string(s[:n])
}

type record struct {
	ptrComp  *record
	discr    enumeration
	enumComp enumeration
	intComp  int
	strComp  str30
}

// State is one Dhrystone program instance: the globals of the reference
// implementation plus the main-loop locals that survive between passes.
type State struct {
	ptrGlob     *record
	nextPtrGlob *record
	intGlob     int
	boolGlob    bool
	ch1Glob     byte
	ch2Glob     byte
	arr1Glob    [50]int
	arr2Glob    [50][50]int

	str1Loc  str30
	runIndex int

	// last pass locals, kept for Check
	int1Loc int
	int2Loc int
	int3Loc int
	enumLoc enumeration
	str2Loc str30
}

// NewState initialises a State the way the Dhrystone main program does
// before entering its measurement loop.
func NewState() *State {
	s := &State{
		nextPtrGlob: &record{},
		ptrGlob:     &record{},
	}

	s.ptrGlob.ptrComp = s.nextPtrGlob
	s.ptrGlob.discr = ident1
	s.ptrGlob.enumComp = ident3
	s.ptrGlob.intComp = 40
	s.ptrGlob.strComp = newStr30("DHRYSTONE PROGRAM, SOME STRING")
	s.str1Loc = newStr30("DHRYSTONE PROGRAM, 1'ST STRING")
	s.arr2Glob[8][7] = 10

	return s
}

// Proc0 performs one pass of the Dhrystone main loop.
func (s *State) Proc0() {
	s.runIndex++

	s.proc5()
	s.proc4()

	int1Loc := 2
	int2Loc := 3
	var int3Loc int
	str2Loc := newStr30("DHRYSTONE PROGRAM, 2'ND STRING")
	enumLoc := ident2
	s.boolGlob = !s.func2(&s.str1Loc, &str2Loc)

	for int1Loc < int2Loc {
		int3Loc = 5*int1Loc - int2Loc
		proc7(int1Loc, int2Loc, &int3Loc)
		int1Loc++
	}

	s.proc8(&s.arr1Glob, &s.arr2Glob, int1Loc, int3Loc)
	s.proc1(s.ptrGlob)

	for chIndex := byte('A'); chIndex <= s.ch2Glob; chIndex++ {
		if enumLoc == s.func1(chIndex, 'C') {
			s.proc6(ident1, &enumLoc)
			str2Loc = newStr30("DHRYSTONE PROGRAM, 3'RD STRING")
			int2Loc = s.runIndex
			s.intGlob = s.runIndex
		}
	}

	int2Loc *= int1Loc
	int1Loc = int2Loc / int3Loc
	int2Loc = 7*(int2Loc-int3Loc) - int1Loc
	s.proc2(&int1Loc)

	s.int1Loc, s.int2Loc, s.int3Loc = int1Loc, int2Loc, int3Loc
	s.enumLoc = enumLoc
	s.str2Loc = str2Loc
}

func (s *State) proc1(ptrValPar *record) {
	nextRecord := ptrValPar.ptrComp

	*ptrValPar.ptrComp = *s.ptrGlob
	ptrValPar.intComp = 5
	nextRecord.intComp = ptrValPar.intComp
	nextRecord.ptrComp = ptrValPar.ptrComp
	s.proc3(&nextRecord.ptrComp)

	if nextRecord.discr == ident1 {
		nextRecord.intComp = 6
		s.proc6(ptrValPar.enumComp, &nextRecord.enumComp)
		nextRecord.ptrComp = s.ptrGlob.ptrComp
		proc7(nextRecord.intComp, 10, &nextRecord.intComp)
	} else {
		*ptrValPar = *ptrValPar.ptrComp
	}
}

func (s *State) proc2(intParRef *int) {
	intLoc := *intParRef + 10
	enumLoc := ident2

	for {
		if s.ch1Glob == 'A' {
			intLoc--
			*intParRef = intLoc - s.intGlob
			enumLoc = ident1
		}
		if enumLoc == ident1 {
			return
		}
	}
}

func (s *State) proc3(ptrRefPar **record) {
	if s.ptrGlob != nil {
		*ptrRefPar = s.ptrGlob.ptrComp
	}
	proc7(10, s.intGlob, &s.ptrGlob.intComp)
}

func (s *State) proc4() {
	boolLoc := s.ch1Glob == 'A'
	s.boolGlob = boolLoc || s.boolGlob
	s.ch2Glob = 'B'
}

func (s *State) proc5() {
	s.ch1Glob = 'A'
	s.boolGlob = false
}

func (s *State) proc6(enumValPar enumeration, enumRefPar *enumeration) {
	*enumRefPar = enumValPar
	if !func3(enumValPar) {
		*enumRefPar = ident4
	}

	switch enumValPar {
	case ident1:
		*enumRefPar = ident1
	case ident2:
		if s.intGlob > 100 {
			*enumRefPar = ident1
		} else {
			*enumRefPar = ident4
		}
	case ident3:
		*enumRefPar = ident2
	case ident4:
	case ident5:
		*enumRefPar = ident3
	}
}

func proc7(int1ParVal, int2ParVal int, intParRef *int) {
	intLoc := int1ParVal + 2
	*intParRef = int2ParVal + intLoc
}

func (s *State) proc8(arr1 *[50]int, arr2 *[50][50]int, int1ParVal, int2ParVal int) {
	intLoc := int1ParVal + 5
	arr1[intLoc] = int2ParVal
	arr1[intLoc+1] = arr1[intLoc]
	arr1[intLoc+30] = intLoc

	for intIndex := intLoc; intIndex <= intLoc+1; intIndex++ {
		arr2[intLoc][intIndex] = intLoc
	}

	arr2[intLoc][intLoc-1]++
	arr2[intLoc+20][intLoc] = arr1[intLoc]
	s.intGlob = 5
}

func (s *State) func1(ch1ParVal, ch2ParVal byte) enumeration {
	ch1Loc := ch1ParVal
	ch2Loc := ch1Loc
	if ch2Loc != ch2ParVal {
		return ident1
	}

	s.ch1Glob = ch1Loc

	return ident2
}

func (s *State) func2(str1ParRef, str2ParRef *str30) bool {
	intLoc := 2
	var chLoc byte

	for intLoc <= 2 {
		if s.func1(str1ParRef[intLoc], str2ParRef[intLoc+1]) == ident1 {
			chLoc = 'A'
			intLoc++
		}
	}

	if chLoc >= 'W' && chLoc < 'Z' {
		intLoc = 7
	}
	if chLoc == 'R' {
		return true
	}
	if bytes.Compare(str1ParRef[:], str2ParRef[:]) > 0 {
		intLoc += 7
		s.intGlob = intLoc

		return true
	}

	return false
}

func func3(enumParVal enumeration) bool {
	enumLoc := enumParVal

	return enumLoc == ident3
}
