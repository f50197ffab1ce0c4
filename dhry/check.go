package dhry

import (
	"errors"
	"fmt"
)

// ErrCorruptState is returned by Check when the state does not hold the
// values a correct Dhrystone run leaves behind.
var ErrCorruptState = errors.New("dhrystone state check failed")

// Runs returns the number of loop-body passes performed on s.
func (s *State) Runs() int {
	return s.runIndex
}

// Check compares the state against the final values printed by the
// reference program. It is only meaningful after at least one pass.
func (s *State) Check() error {
	if s.runIndex == 0 {
		return fmt.Errorf("%w: no passes performed", ErrCorruptState)
	}

	checks := []struct {
		name      string
		got, want any
	}{
		{"Int_Glob", s.intGlob, 5},
		{"Bool_Glob", s.boolGlob, true},
		{"Ch_1_Glob", s.ch1Glob, byte('A')},
		{"Ch_2_Glob", s.ch2Glob, byte('B')},
		{"Arr_1_Glob[8]", s.arr1Glob[8], 7},
		{"Arr_2_Glob[8][7]", s.arr2Glob[8][7], s.runIndex + 10},
		{"Ptr_Glob.Discr", s.ptrGlob.discr, ident1},
		{"Ptr_Glob.Enum_Comp", s.ptrGlob.enumComp, ident3},
		{"Ptr_Glob.Int_Comp", s.ptrGlob.intComp, 17},
		{"Ptr_Glob.Str_Comp", s.ptrGlob.strComp.String(), "DHRYSTONE PROGRAM, SOME STRING"},
		{"Next_Ptr_Glob.Discr", s.nextPtrGlob.discr, ident1},
		{"Next_Ptr_Glob.Enum_Comp", s.nextPtrGlob.enumComp, ident2},
		{"Next_Ptr_Glob.Int_Comp", s.nextPtrGlob.intComp, 18},
		{"Int_1_Loc", s.int1Loc, 5},
		{"Int_2_Loc", s.int2Loc, 13},
		{"Int_3_Loc", s.int3Loc, 7},
		{"Enum_Loc", s.enumLoc, ident2},
		{"Str_1_Loc", s.str1Loc.String(), "DHRYSTONE PROGRAM, 1'ST STRING"},
		{"Str_2_Loc", s.str2Loc.String(), "DHRYSTONE PROGRAM, 2'ND STRING"},
	}

	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("%w: %s = %v, want %v",
				ErrCorruptState, c.name, c.got, c.want)
		}
	}

	return nil
}
