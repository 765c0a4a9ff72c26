package crypto

import "testing"

func TestLiftXRecoversEvenY(t *testing.T) {
	s, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p := BaseMul(s)

	lifted, err := LiftX(p.X)
	if err != nil {
		t.Fatalf("LiftX: %v", err)
	}
	if !HasEvenY(lifted) {
		t.Fatal("LiftX did not return the even-y point")
	}
	if lifted.X.Cmp(p.X) != 0 {
		t.Fatal("LiftX changed the x-coordinate")
	}

	if HasEvenY(p) {
		if !Eq(lifted, p) {
			t.Fatal("LiftX should reproduce an already-even-y point exactly")
		}
	} else {
		if !Eq(lifted, Neg(p)) {
			t.Fatal("LiftX should reproduce the negation of an odd-y point")
		}
	}
}

func TestCompressedBytesRoundTrip(t *testing.T) {
	s, err := RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	p := BaseMul(s)

	got, err := PointFromCompressed(p.CompressedBytes())
	if err != nil {
		t.Fatalf("PointFromCompressed: %v", err)
	}
	if !Eq(got, p) {
		t.Fatal("round trip through compressed bytes changed the point")
	}
}
