package http

import (
	"html/template"
	"strings"
)

// Fragmentos HTML de las celdas. Pasan por html/template para que ids,
// nombres y URLs queden escapados según su contexto.
var fragments = template.Must(template.New("fragments").Parse(`
{{define "input"}}<input class="lv-input" form="{{.Form}}" name="{{.Name}}" value="{{.Value}}" type="{{.Type}}"{{if .Step}} step="{{.Step}}"{{end}} min="0">{{end}}
{{define "save"}}<form id="{{.Form}}" method="post" action="{{.Action}}" class="lv-inline"><button type="submit">Guardar</button></form> <a href="{{.Cancel}}">Cancelar</a>{{end}}
{{define "link"}}<a href="{{.Href}}">{{.Label}}</a>{{end}}
{{define "post"}}<form method="post" action="{{.Action}}" class="lv-inline">{{range .Fields}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}<button type="submit"{{if .Confirm}} onclick="return confirm({{.Confirm}})"{{end}}>{{.Label}}</button></form>{{end}}
{{define "badge"}}<span class="badge badge-{{.Class}}">{{.Label}}</span>{{end}}
{{define "product-form"}}<form method="post" action="{{.CreateAction}}" class="lv-create"><h3>Nuevo producto</h3>
<input name="name" placeholder="Nombre" required> <input name="category" placeholder="Categoría" required>
<input name="price" type="number" step="0.01" min="0" placeholder="Precio" required> <input name="stock" type="number" min="0" placeholder="Stock" required>
<input name="image" placeholder="URL de imagen"> <textarea name="description" placeholder="Descripción"></textarea>
<button type="submit">Crear</button></form>{{end}}
{{define "seller-form"}}<form method="post" action="{{.CreateAction}}" class="lv-create"><h3>Nuevo vendedor</h3>
<input name="name" placeholder="Nombre" required> <input name="email" type="email" placeholder="Email" required>
<input name="password" type="password" placeholder="Contraseña" required> <input name="phone" placeholder="Teléfono">
<input name="shopName" placeholder="Tienda" required> <button type="submit">Crear</button></form>{{end}}
{{define "restock-form"}}<form method="post" action="{{.CreateAction}}" class="lv-create"><h3>Solicitar reposición</h3>
<input name="prodId" placeholder="ID de producto" required> <input name="quantity" type="number" min="1" placeholder="Cantidad" required>
<input name="note" placeholder="Nota"> <button type="submit">Enviar</button></form>{{end}}
{{define "add-to-cart"}}<form method="post" action="/cart/add" class="lv-inline"><input type="hidden" name="prodId" value="{{.ID}}"><input type="hidden" name="back" value="{{.Back}}"><input class="lv-qty" type="number" name="qty" value="1" min="1" max="{{.Stock}}"> <button type="submit">Agregar</button></form>{{end}}
`))

type inputFrag struct {
	Form  string
	Name  string
	Value string
	Type  string
	Step  string
}

type saveFrag struct {
	Form   string
	Action string
	Cancel string
}

type linkFrag struct {
	Href  string
	Label string
}

type postFrag struct {
	Action  string
	Label   string
	Confirm string
	Fields  []hiddenField
}

type badgeFrag struct {
	Class string
	Label string
}

type addToCartFrag struct {
	ID    string
	Stock int
	Back  string
}

func frag(name string, data any) template.HTML {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(b.String())
}

// formID id del formulario de edición de una fila; los inputs de otras
// celdas lo referencian con el atributo form.
func formID(id string) string {
	return "edit-" + id
}

func input(id, name, value, typ, step string) template.HTML {
	return frag("input", inputFrag{Form: formID(id), Name: name, Value: value, Type: typ, Step: step})
}

func editActions(rc rowContext, id string) template.HTML {
	if rc.Editing == id {
		return frag("save", saveFrag{Form: formID(id), Action: rc.Action(id, ""), Cancel: rc.CancelHref()})
	}
	return frag("link", linkFrag{Href: rc.EditHref(id), Label: "Editar"})
}

func postButton(action, label, confirm string, fields ...hiddenField) template.HTML {
	return frag("post", postFrag{Action: action, Label: label, Confirm: confirm, Fields: fields})
}

func badge(status string) template.HTML {
	return frag("badge", badgeFrag{Class: status, Label: statusLabel(status)})
}

func joinHTML(parts ...template.HTML) template.HTML {
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(string(p))
	}
	return template.HTML(b.String())
}
