package handler

import (
	"testing"

	"github.com/autorenta/rental-api/internal/model"
)

func TestCaracteristicaReqValidate(t *testing.T) {
	if msg := (caracteristicaReq{Nombre: "Aire acondicionado"}).validate(); msg != "" {
		t.Errorf("valid request rejected: %q", msg)
	}
	if msg := (caracteristicaReq{Nombre: "   "}).validate(); msg == "" {
		t.Error("blank nombre accepted")
	}
}

func TestProductoReqValidate(t *testing.T) {
	base := productoReq{CategoriaID: 1, Nombre: "Sedán", PrecioDiaCents: 5000}
	if msg := base.validate(); msg != "" {
		t.Errorf("valid request rejected: %q", msg)
	}
	cases := []struct {
		name string
		req  productoReq
	}{
		{"blank nombre", productoReq{CategoriaID: 1, Nombre: " ", PrecioDiaCents: 5000}},
		{"missing categoria", productoReq{Nombre: "Sedán", PrecioDiaCents: 5000}},
		{"zero price", productoReq{CategoriaID: 1, Nombre: "Sedán"}},
	}
	for _, tc := range cases {
		if msg := tc.req.validate(); msg == "" {
			t.Errorf("%s accepted", tc.name)
		}
	}
}

func TestVehicleFeatureResp(t *testing.T) {
	vf := model.VehicleFeature{
		Feature: model.Feature{ID: 3, Name: "Transmisión", IconURL: "http://cdn/t.svg"},
		Value:   "Automática",
	}
	got := toVehicleFeatureResp(vf)
	if got.ID != 3 || got.Nombre != "Transmisión" || got.Valor != "Automática" {
		t.Errorf("unexpected response: %+v", got)
	}
	// Without a per-vehicle value the valor field stays empty and is
	// omitted on the wire.
	got = toVehicleFeatureResp(model.VehicleFeature{Feature: model.Feature{ID: 4, Name: "GPS"}})
	if got.Valor != "" {
		t.Errorf("expected empty valor, got %q", got.Valor)
	}
}

func TestTransitionAllowed(t *testing.T) {
	allowed := []struct{ from, to model.Status }{
		{model.StatusPending, model.StatusConfirmed},
		{model.StatusPending, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusFinalized},
		{model.StatusConfirmed, model.StatusCancelled},
	}
	for _, tc := range allowed {
		if !transitionAllowed(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}
	denied := []struct{ from, to model.Status }{
		{model.StatusPending, model.StatusFinalized},
		{model.StatusFinalized, model.StatusConfirmed},
		{model.StatusCancelled, model.StatusConfirmed},
		{model.StatusConfirmed, model.StatusPending},
	}
	for _, tc := range denied {
		if transitionAllowed(tc.from, tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}
