package vtest_test

import (
	"testing"

	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/vtest"
)

const counter = `<div id="app">` +
	`<input v-model="name"><p class="greet">Hi {{ name }}</p>` +
	`<span v-text="count"></span><button @click="inc">+</button>` +
	`</div>`

func build(t *testing.T) *vtest.Page {
	return vtest.NewPage(counter).
		WithData("name", "Ada").
		WithData("count", 0).
		WithMethod("inc", func(vm *binding.Instance) {
			vm.Set("count", vm.Get("count").(int)+1)
		}).
		Build(t)
}

func TestBuildRendersInitialState(t *testing.T) {
	page := build(t)

	page.ExpectText("p.greet", "Hi Ada")
	page.ExpectText("span", "0")
	page.ExpectValue("input", "Ada")
	page.ExpectContains(`value="Ada"`)
	page.ExpectNotContains("{{")
	if len(page.Mutations()) != 0 {
		t.Errorf("mount should not be recorded, got %v", page.Mutations())
	}
}

func TestInputAndClick(t *testing.T) {
	page := build(t)

	page.Input("input", "Grace")
	page.ExpectText("p", "Hi Grace")

	page.ResetMutations()
	page.Click("button")
	page.Click("button")
	page.ExpectText("span", "2")

	muts := page.Mutations()
	if len(muts) != 2 {
		t.Fatalf("got %d mutations, want 2: %v", len(muts), muts)
	}
	want := dom.Mutation{Ref: page.Find("span").Ref(), Prop: dom.PropText, Value: "2"}
	if muts[1] != want {
		t.Errorf("last mutation = %+v, want %+v", muts[1], want)
	}
}

func TestCustomDirectives(t *testing.T) {
	page := vtest.NewPage(`<main id="root"><b x-text="who"></b>[[who]]</main>`).
		WithEl("#root").
		WithData("who", "you").
		WithDirectives(binding.Directives{Text: "x-text", Open: "[[", Close: "]]"}).
		Build(t)

	page.ExpectText("b", "you")
	page.ExpectText("main", "you")
}

func TestMountError(t *testing.T) {
	_, err := vtest.NewPage(`<div id="app"><button @click="missing"></button></div>`).Mount()
	if err == nil {
		t.Fatal("expected an error for an unknown method")
	}
}
